package cart

import "testing"

const maxTestQty = 999

func sampleItem(id string, priceKobo int64) Item {
	return Item{
		ID:           id,
		Title:        "Title " + id,
		Author:       "Author " + id,
		PriceKobo:    priceKobo,
		ImageURL:     "https://cdn.example.com/" + id + ".jpg",
		PriceDisplay: "₦" + id,
	}
}

func TestAddNewItemAppendsLine(t *testing.T) {
	t.Parallel()

	var c Cart
	if err := c.Add(sampleItem("b1", 150000), 2, maxTestQty); err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(c.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Lines))
	}
	line := c.Lines[0]
	if line.ID != "b1" || line.Quantity != 2 || line.PriceKobo != 150000 {
		t.Fatalf("unexpected line %+v", line)
	}
	if line.Title == "" || line.Author == "" || line.ImageURL == "" || line.PriceDisplay == "" {
		t.Fatalf("snapshot fields missing on line %+v", line)
	}
}

func TestAddDuplicateMergesQuantityOnly(t *testing.T) {
	t.Parallel()

	var c Cart
	if err := c.Add(sampleItem("b1", 100), 1, maxTestQty); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(sampleItem("b2", 200), 1, maxTestQty); err != nil {
		t.Fatalf("add: %v", err)
	}

	// same ID again, even with different snapshot fields
	dup := sampleItem("b1", 100)
	dup.Title = "Renamed"
	if err := c.Add(dup, 3, maxTestQty); err != nil {
		t.Fatalf("add duplicate: %v", err)
	}

	if len(c.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Lines))
	}
	if c.Lines[0].ID != "b1" || c.Lines[1].ID != "b2" {
		t.Fatalf("insertion order not preserved: %+v", c.Lines)
	}
	if c.Lines[0].Quantity != 4 {
		t.Fatalf("expected merged quantity 4, got %d", c.Lines[0].Quantity)
	}
	if c.Lines[0].Title != "Title b1" {
		t.Fatalf("duplicate add must not rewrite the original snapshot, got %q", c.Lines[0].Title)
	}
}

func TestAddClampsQuantityBelowOne(t *testing.T) {
	t.Parallel()

	var c Cart
	if err := c.Add(sampleItem("b1", 100), 0, maxTestQty); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(sampleItem("b2", 100), -7, maxTestQty); err != nil {
		t.Fatalf("add: %v", err)
	}

	if c.Lines[0].Quantity != 1 || c.Lines[1].Quantity != 1 {
		t.Fatalf("expected both quantities clamped to 1, got %+v", c.Lines)
	}
}

func TestAddCapsQuantityAtMax(t *testing.T) {
	t.Parallel()

	var c Cart
	if err := c.Add(sampleItem("b1", 100), 990, maxTestQty); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(sampleItem("b1", 100), 50, maxTestQty); err != nil {
		t.Fatalf("add: %v", err)
	}

	if c.Lines[0].Quantity != maxTestQty {
		t.Fatalf("expected quantity capped at %d, got %d", maxTestQty, c.Lines[0].Quantity)
	}
}

func TestAddRejectsInvalidItem(t *testing.T) {
	t.Parallel()

	var c Cart
	if err := c.Add(Item{Title: "no id"}, 1, maxTestQty); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := c.Add(Item{ID: "x", Title: "neg", PriceKobo: -1}, 1, maxTestQty); err == nil {
		t.Fatal("expected error for negative price")
	}
	if len(c.Lines) != 0 {
		t.Fatalf("invalid adds must not mutate the cart: %+v", c.Lines)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.Add(sampleItem("b1", 100), 2, maxTestQty)
	_ = c.Add(sampleItem("b2", 100), 2, maxTestQty)

	c.UpdateQuantity("b1", 0, maxTestQty)
	if c.Contains("b1") {
		t.Fatal("expected b1 removed on zero quantity")
	}

	c.UpdateQuantity("b2", -4, maxTestQty)
	if c.Contains("b2") {
		t.Fatal("expected b2 removed on negative quantity")
	}
	if len(c.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", c.Lines)
	}
}

func TestUpdateQuantityReplacesAndCaps(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.Add(sampleItem("b1", 100), 2, maxTestQty)

	c.UpdateQuantity("b1", 7, maxTestQty)
	if got, _ := c.LineFor("b1"); got.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", got.Quantity)
	}

	c.UpdateQuantity("b1", 5000, maxTestQty)
	if got, _ := c.LineFor("b1"); got.Quantity != maxTestQty {
		t.Fatalf("expected quantity capped at %d, got %d", maxTestQty, got.Quantity)
	}

	// unknown id is a no-op
	c.UpdateQuantity("missing", 3, maxTestQty)
	if len(c.Lines) != 1 {
		t.Fatalf("unexpected line count %d", len(c.Lines))
	}
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.Add(sampleItem("b1", 100), 1, maxTestQty)

	c.Remove("missing")
	if len(c.Lines) != 1 {
		t.Fatalf("expected untouched cart, got %+v", c.Lines)
	}

	c.Remove("b1")
	if len(c.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", c.Lines)
	}
}

func TestItemCountAndSubtotal(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.Add(sampleItem("b1", 150000), 2, maxTestQty) // 300000
	_ = c.Add(sampleItem("b2", 90000), 3, maxTestQty)  // 270000
	_ = c.Add(sampleItem("b3", 30000), 1, maxTestQty)  // 30000

	if got := c.ItemCount(); got != 6 {
		t.Fatalf("expected item count 6, got %d", got)
	}
	if got := c.SubtotalKobo(); got != 600000 {
		t.Fatalf("expected subtotal 600000, got %d", got)
	}

	c.Clear()
	if c.ItemCount() != 0 || c.SubtotalKobo() != 0 || len(c.Lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", c)
	}
}

func TestContainsAndLineFor(t *testing.T) {
	t.Parallel()

	var c Cart
	_ = c.Add(sampleItem("b1", 100), 1, maxTestQty)

	if !c.Contains("b1") {
		t.Fatal("expected cart to contain b1")
	}
	if c.Contains("b2") {
		t.Fatal("cart should not contain b2")
	}

	line, ok := c.LineFor("b1")
	if !ok || line.ID != "b1" {
		t.Fatalf("unexpected line %+v ok=%v", line, ok)
	}
	if _, ok := c.LineFor("b2"); ok {
		t.Fatal("LineFor must miss on unknown id")
	}

	// returned line is a copy, mutating it must not affect the cart
	line.Quantity = 50
	if got, _ := c.LineFor("b1"); got.Quantity != 1 {
		t.Fatalf("LineFor leaked internal state, quantity %d", got.Quantity)
	}
}
