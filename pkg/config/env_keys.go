package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "KWLC"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "KWLC_APP_ENV"
	EnvPort                   = "KWLC_APP_PORT"
	EnvDBDSN                  = "KWLC_DB_DSN"
	EnvDBHost                 = "KWLC_DB_HOST"
	EnvDBUser                 = "KWLC_DB_USER"
	EnvDBName                 = "KWLC_DB_NAME"
	EnvRedisURL               = "KWLC_REDIS_URL"
	EnvJWTSecret              = "KWLC_JWT_SECRET"
	EnvJWTIssuer              = "KWLC_JWT_ISSUER"
	EnvJWTExpMins             = "KWLC_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "KWLC_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
