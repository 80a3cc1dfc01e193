package training

import (
	"time"

	"dyno/internal/ml"
	"dyno/internal/order"
)

// Sample is a cleaned training row.
type Sample struct {
	Customer string
	Region   string
	Item     string
	Quantity int
	Price    float64
}

// Clean drops every order missing customer, region, item, quantity or price.
// Rows are dropped silently; only an empty result is an error for the caller.
func Clean(snapshot []order.Order) []Sample {
	samples := make([]Sample, 0, len(snapshot))
	for _, o := range snapshot {
		price, ok := o.PriceFloat()
		if !ok || o.CustomerID == nil || o.Region == nil || *o.Region == "" || o.ItemName == nil || o.Quantity < 1 {
			continue
		}
		samples = append(samples, Sample{
			Customer: *o.CustomerID,
			Region:   *o.Region,
			Item:     *o.ItemName,
			Quantity: o.Quantity,
			Price:    price,
		})
	}
	return samples
}

// Train fits a fresh encoder set and price model on the snapshot.
// It returns ml.ErrInsufficientData if nothing survives cleaning.
func Train(snapshot []order.Order, trainedAt time.Time) (*ml.Bundle, error) {
	samples := Clean(snapshot)
	if len(samples) == 0 {
		return nil, ml.ErrInsufficientData
	}

	customers := make([]string, len(samples))
	regions := make([]string, len(samples))
	items := make([]string, len(samples))
	for i, s := range samples {
		customers[i] = s.Customer
		regions[i] = s.Region
		items[i] = s.Item
	}

	bundle := &ml.Bundle{
		CustomerEncoder: ml.FitEncoder(customers),
		RegionEncoder:   ml.FitEncoder(regions),
		ItemEncoder:     ml.FitEncoder(items),
		TrainedAt:       trainedAt.UTC(),
		TrainingRows:    len(samples),
	}

	x := make([][]float64, len(samples))
	y := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = bundle.Encode(s.Customer, s.Region, s.Item, s.Quantity).Features
		y[i] = s.Price
	}

	model, err := ml.FitLinear(x, y)
	if err != nil {
		return nil, err
	}
	bundle.Model = model

	return bundle, nil
}
