package menu

import "github.com/shopspring/decimal"

// Item is a menu entry surfaced by the suggestion UI.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
}
