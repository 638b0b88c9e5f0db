package cart

import (
	"strings"

	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
)

// Line is one distinct catalog item in a cart plus the quantity held.
// Price fields are snapshotted at add time and never refreshed from the
// catalog.
type Line struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	PriceKobo    int64  `json:"price_kobo"`
	ImageURL     string `json:"image_url"`
	PriceDisplay string `json:"price_display"`
	Quantity     int    `json:"quantity"`
}

// Item is the catalog-side contract for anything that can be added to a
// cart. Quantity is not part of the item; it travels separately.
type Item struct {
	ID           string
	Title        string
	Author       string
	PriceKobo    int64
	ImageURL     string
	PriceDisplay string
}

func (i Item) validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item title is required")
	}
	if i.PriceKobo < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
	}
	return nil
}

// Cart is the ordered collection of lines for one session. Methods mutate
// in place; the zero value is an empty, usable cart.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges the item into the cart. A duplicate ID only bumps the existing
// line's quantity; insertion order is preserved. Quantities below 1 are
// clamped to 1 and line totals are capped at maxQuantity.
func (c *Cart) Add(item Item, quantity, maxQuantity int) error {
	if err := item.validate(); err != nil {
		return err
	}
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ID == item.ID {
			c.Lines[i].Quantity = capQuantity(c.Lines[i].Quantity+quantity, maxQuantity)
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{
		ID:           item.ID,
		Title:        item.Title,
		Author:       item.Author,
		PriceKobo:    item.PriceKobo,
		ImageURL:     item.ImageURL,
		PriceDisplay: item.PriceDisplay,
		Quantity:     capQuantity(quantity, maxQuantity),
	})
	return nil
}

// Remove drops the line with the given ID. Unknown IDs are a no-op.
func (c *Cart) Remove(id string) {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces the quantity on an existing line. A quantity of
// zero or less removes the line. Unknown IDs are a no-op.
func (c *Cart) UpdateQuantity(id string, quantity, maxQuantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			c.Lines[i].Quantity = capQuantity(quantity, maxQuantity)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// ItemCount sums quantities across all lines.
func (c *Cart) ItemCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// SubtotalKobo sums unit price times quantity across all lines.
func (c *Cart) SubtotalKobo() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.PriceKobo * int64(line.Quantity)
	}
	return total
}

// Contains reports whether a line with the given ID exists.
func (c *Cart) Contains(id string) bool {
	_, ok := c.LineFor(id)
	return ok
}

// LineFor returns a copy of the line with the given ID.
func (c *Cart) LineFor(id string) (Line, bool) {
	for _, line := range c.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return Line{}, false
}

// Clone returns a deep copy safe to hand out across goroutines.
func (c *Cart) Clone() Cart {
	if len(c.Lines) == 0 {
		return Cart{}
	}
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

func capQuantity(quantity, max int) int {
	if max > 0 && quantity > max {
		return max
	}
	return quantity
}
