package order

import "github.com/shopspring/decimal"

// UnknownRegion replaces an absent region before aggregation or encoding.
const UnknownRegion = "Unknown"

// Order is one placed order as read from the ledger.
// Fields the ordering flow may leave empty are pointers.
type Order struct {
	ID         int64            `json:"id"`
	CustomerID *string          `json:"customer_id"`
	Region     *string          `json:"region"`
	ItemID     int64            `json:"item_id"`
	ItemName   *string          `json:"item_name"`
	Quantity   int              `json:"quantity"`
	Price      *decimal.Decimal `json:"realized_price"`
}

// RegionOrUnknown returns the region with the absent case normalized.
func (o Order) RegionOrUnknown() string {
	if o.Region == nil || *o.Region == "" {
		return UnknownRegion
	}
	return *o.Region
}

// Customer returns the customer label, or "" when absent.
func (o Order) Customer() string {
	if o.CustomerID == nil {
		return ""
	}
	return *o.CustomerID
}

// Item returns the item label, or "" when absent.
func (o Order) Item() string {
	if o.ItemName == nil {
		return ""
	}
	return *o.ItemName
}

// PriceFloat returns the realized price as float64 and whether it was present.
func (o Order) PriceFloat() (float64, bool) {
	if o.Price == nil {
		return 0, false
	}
	return o.Price.InexactFloat64(), true
}
