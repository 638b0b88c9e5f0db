package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kwlc-church/kwlc-backend/api/responses"
	"github.com/kwlc-church/kwlc-backend/api/validators"
	"github.com/kwlc-church/kwlc-backend/internal/books"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	"github.com/kwlc-church/kwlc-backend/pkg/pagination"
	"github.com/kwlc-church/kwlc-backend/pkg/types"
)

// BookView is the wire shape of a catalog entry.
type BookView struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Description  string    `json:"description"`
	PriceKobo    int64     `json:"price_kobo"`
	PriceDisplay string    `json:"price_display"`
	ImageURL     string    `json:"image_url"`
	Categories   []string  `json:"categories"`
	Stock        int       `json:"stock"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateBookRequest is the admin payload for a new catalog entry.
type CreateBookRequest struct {
	Title       string          `json:"title" validate:"required"`
	Author      string          `json:"author" validate:"required"`
	Description string          `json:"description"`
	PriceNaira  decimal.Decimal `json:"price_naira" validate:"required"`
	ImageURL    string          `json:"image_url"`
	Categories  []string        `json:"categories"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsPublished bool            `json:"is_published"`
}

// UpdateBookRequest carries partial catalog edits; absent fields are untouched.
type UpdateBookRequest struct {
	Title       *string          `json:"title"`
	Author      *string          `json:"author"`
	Description *string          `json:"description"`
	PriceNaira  *decimal.Decimal `json:"price_naira"`
	ImageURL    *string          `json:"image_url"`
	Categories  []string         `json:"categories"`
	Stock       *int             `json:"stock"`
	IsPublished *bool            `json:"is_published"`
}

func newBookView(book *models.Book) BookView {
	return BookView{
		ID:           book.ID,
		Title:        book.Title,
		Author:       book.Author,
		Description:  book.Description,
		PriceKobo:    book.PriceKobo,
		PriceDisplay: book.PriceDisplay,
		ImageURL:     book.ImageURL,
		Categories:   []string(book.Categories),
		Stock:        book.Stock,
		IsPublished:  book.IsPublished,
		CreatedAt:    book.CreatedAt,
	}
}

func newBookViews(records []models.Book) []BookView {
	views := make([]BookView, 0, len(records))
	for i := range records {
		views = append(views, newBookView(&records[i]))
	}
	return views
}

// BooksList serves the public shop catalog, published entries only.
func BooksList(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		page := pagination.FromRequest(r)
		category := validators.SanitizeString(r.URL.Query().Get("category"), 100)

		records, total, err := svc.ListPublished(r.Context(), page, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.ListEnvelope{
			Items:  newBookViews(records),
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
}

// BooksGet serves one published catalog entry.
func BooksGet(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		id, err := uuidParam(r, "bookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.GetPublished(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBookView(book))
	}
}

// AdminBooksList serves the full catalog including unpublished entries.
func AdminBooksList(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		page := pagination.FromRequest(r)
		records, total, err := svc.ListAll(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.ListEnvelope{
			Items:  newBookViews(records),
			Total:  total,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
}

// AdminBooksCreate adds a catalog entry.
func AdminBooksCreate(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		var body CreateBookRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.Create(r.Context(), books.CreateBookInput{
			Title:       body.Title,
			Author:      body.Author,
			Description: body.Description,
			PriceNaira:  body.PriceNaira,
			ImageURL:    body.ImageURL,
			Categories:  body.Categories,
			Stock:       body.Stock,
			IsPublished: body.IsPublished,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newBookView(book))
	}
}

// AdminBooksUpdate edits a catalog entry.
func AdminBooksUpdate(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		id, err := uuidParam(r, "bookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body UpdateBookRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		book, err := svc.Update(r.Context(), id, books.UpdateBookInput{
			Title:       body.Title,
			Author:      body.Author,
			Description: body.Description,
			PriceNaira:  body.PriceNaira,
			ImageURL:    body.ImageURL,
			Categories:  body.Categories,
			Stock:       body.Stock,
			IsPublished: body.IsPublished,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newBookView(book))
	}
}

// AdminBooksDelete removes a catalog entry.
func AdminBooksDelete(svc books.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "books service unavailable"))
			return
		}

		id, err := uuidParam(r, "bookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
