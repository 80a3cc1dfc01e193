package prediction

import (
	"dyno/internal/ml"
	"dyno/internal/order"
)

// PredictBatch returns one result per record, in input order.
// A nil bundle yields an empty slice: predictions are optional.
func PredictBatch(records []order.Order, bundle *ml.Bundle) []Result {
	if bundle == nil {
		return []Result{}
	}

	results := make([]Result, 0, len(records))
	for _, o := range records {
		region := o.RegionOrUnknown()
		predicted, fb := bundle.Predict(o.Customer(), region, o.Item(), o.Quantity)

		res := Result{
			OrderID:        o.ID,
			Customer:       o.Customer(),
			Region:         region,
			Item:           o.Item(),
			Quantity:       o.Quantity,
			PredictedPrice: predicted,
			Fallback:       fb,
		}
		if price, ok := o.PriceFloat(); ok {
			res.RealizedPrice = &price
		}
		results = append(results, res)
	}
	return results
}

// PredictOne applies the same encoding and fallback rules to a single query.
func PredictOne(q Query, bundle *ml.Bundle) (Result, error) {
	if bundle == nil {
		return Result{}, ml.ErrBundleMissing
	}

	region := q.Region
	if region == "" {
		region = order.UnknownRegion
	}

	predicted, fb := bundle.Predict(q.Customer, region, q.Item, q.Quantity)
	return Result{
		Customer:       q.Customer,
		Region:         region,
		Item:           q.Item,
		Quantity:       q.Quantity,
		PredictedPrice: predicted,
		Fallback:       fb,
	}, nil
}
