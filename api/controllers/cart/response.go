package cart

import (
	cartsvc "github.com/kwlc-church/kwlc-backend/internal/cart"
)

// CartLine is the wire shape of one cart line.
type CartLine struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	PriceKobo    int64  `json:"price_kobo"`
	PriceDisplay string `json:"price_display"`
	ImageURL     string `json:"image_url"`
	Quantity     int    `json:"quantity"`
}

// CartView is the wire shape of the whole session cart.
type CartView struct {
	Lines           []CartLine `json:"lines"`
	ItemCount       int        `json:"item_count"`
	SubtotalKobo    int64      `json:"subtotal_kobo"`
	SubtotalDisplay string     `json:"subtotal_display"`
}

func newCartView(snapshot *cartsvc.Snapshot) CartView {
	lines := make([]CartLine, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, CartLine{
			ID:           line.ID,
			Title:        line.Title,
			Author:       line.Author,
			PriceKobo:    line.PriceKobo,
			PriceDisplay: line.PriceDisplay,
			ImageURL:     line.ImageURL,
			Quantity:     line.Quantity,
		})
	}

	return CartView{
		Lines:           lines,
		ItemCount:       snapshot.ItemCount,
		SubtotalKobo:    snapshot.SubtotalKobo,
		SubtotalDisplay: snapshot.SubtotalDisplay,
	}
}
