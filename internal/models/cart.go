package models

import "github.com/shopspring/decimal"

// Cart кэш серверной корзины. Итоги пересчитываются локально
// по ставке налога витрины.
type Cart struct {
	Items    []CartItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// CartItem позиция корзины.
type CartItem struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Title     string          `json:"title,omitempty"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal возвращает стоимость позиции.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Clone возвращает глубокую копию корзины для отката оптимистичных изменений.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = append([]CartItem(nil), c.Items...)
	return &out
}

// Recalculate пересчитывает подытог, налог и итог.
func (c *Cart) Recalculate(taxRate decimal.Decimal) {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	c.Subtotal = subtotal.Round(2)
	c.Tax = subtotal.Mul(taxRate).Round(2)
	c.Total = c.Subtotal.Add(c.Tax)
}

// Count возвращает количество единиц товара в корзине.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Find возвращает индекс позиции itemID или -1.
func (c *Cart) Find(itemID int) int {
	for i, item := range c.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}
