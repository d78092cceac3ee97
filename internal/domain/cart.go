package domain

import "time"

type Product struct {
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	SKU            string  `json:"sku"`
	UnitPrice      float64 `json:"unit_price"`
	AvailableStock int     `json:"available_stock"`
}

type CartLine struct {
	ProductID      int64   `json:"product_id" bson:"product_id"`
	ProductName    string  `json:"product_name" bson:"product_name"`
	SKU            string  `json:"sku" bson:"sku"`
	UnitPrice      float64 `json:"unit_price" bson:"unit_price"`
	Quantity       int     `json:"quantity" bson:"quantity"`
	DiscountPct    float64 `json:"discount_percentage" bson:"discount_percentage"`
	AvailableStock int     `json:"available_stock" bson:"available_stock"`
	Subtotal       float64 `json:"subtotal" bson:"subtotal"`
	DiscountAmount float64 `json:"discount_amount" bson:"discount_amount"`
	Total          float64 `json:"total" bson:"total"`
}

// ComputeLine derives subtotal, discount amount and total for a single line.
// Native float64 arithmetic; rounding is a display concern.
func ComputeLine(unitPrice float64, quantity int, discountPct float64) (subtotal, discountAmount, total float64) {
	subtotal = unitPrice * float64(quantity)
	discountAmount = subtotal * discountPct / 100
	total = subtotal - discountAmount
	return subtotal, discountAmount, total
}

func (l *CartLine) recompute() {
	l.Subtotal, l.DiscountAmount, l.Total = ComputeLine(l.UnitPrice, l.Quantity, l.DiscountPct)
}

type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discount_total"`
	GrandTotal    float64 `json:"grand_total"`
}

// Cart holds the lines of one register session. Lines keep insertion order
// and are unique by product id.
type Cart struct {
	RegisterID string     `json:"register_id" bson:"register_id"`
	Lines      []CartLine `json:"lines" bson:"lines"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) findLine(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem inserts a new line with quantity 1, or bumps the quantity of an
// existing line by 1. The available stock is a hard ceiling; a rejected add
// leaves the line unchanged.
func (c *Cart) AddItem(p Product) error {
	if i := c.findLine(p.ProductID); i >= 0 {
		line := &c.Lines[i]
		if line.Quantity+1 > line.AvailableStock {
			return ErrStockExceeded
		}
		line.Quantity++
		line.recompute()
		return nil
	}

	if p.AvailableStock < 1 {
		return ErrStockExceeded
	}
	line := CartLine{
		ProductID:      p.ProductID,
		ProductName:    p.ProductName,
		SKU:            p.SKU,
		UnitPrice:      p.UnitPrice,
		Quantity:       1,
		AvailableStock: p.AvailableStock,
	}
	line.recompute()
	c.Lines = append(c.Lines, line)
	return nil
}

// UpdateQuantity applies a delta to a line's quantity. A resulting quantity
// of zero or less removes the line; one above the available stock is rejected
// with the line unchanged.
func (c *Cart) UpdateQuantity(productID int64, delta int) error {
	i := c.findLine(productID)
	if i < 0 {
		return ErrLineNotFound
	}

	next := c.Lines[i].Quantity + delta
	if next <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	}
	if next > c.Lines[i].AvailableStock {
		return ErrStockExceeded
	}
	c.Lines[i].Quantity = next
	c.Lines[i].recompute()
	return nil
}

// UpdateDiscount sets a line's discount percentage. Values outside [0,100]
// are dropped without touching the line, matching the terminal's historical
// behavior.
func (c *Cart) UpdateDiscount(productID int64, pct float64) error {
	i := c.findLine(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if pct < 0 || pct > 100 {
		return nil
	}
	c.Lines[i].DiscountPct = pct
	c.Lines[i].recompute()
	return nil
}

func (c *Cart) RemoveItem(productID int64) {
	if i := c.findLine(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Totals sums the derived line values. Pure, O(n) in cart size.
func (c *Cart) Totals() Totals {
	var t Totals
	for i := range c.Lines {
		t.Subtotal += c.Lines[i].Subtotal
		t.DiscountTotal += c.Lines[i].DiscountAmount
		t.GrandTotal += c.Lines[i].Total
	}
	return t
}
