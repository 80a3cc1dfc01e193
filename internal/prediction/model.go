package prediction

import "dyno/internal/ml"

// Result pairs an order with the model's price estimate.
// Results are derived on demand and never written back to the ledger.
type Result struct {
	OrderID        int64       `json:"order_id"`
	Customer       string      `json:"customer"`
	Region         string      `json:"region"`
	Item           string      `json:"item"`
	Quantity       int         `json:"quantity"`
	RealizedPrice  *float64    `json:"realized_price"`
	PredictedPrice float64     `json:"predicted_price"`
	Fallback       ml.Fallback `json:"fallback"`
}

// Query is an ad-hoc prediction request.
type Query struct {
	Customer string `json:"customer"`
	Region   string `json:"region"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}
