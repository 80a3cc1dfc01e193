package prediction

import (
	"context"
	"log/slog"
	"sync/atomic"

	"dyno/internal/ml"
	"dyno/internal/order"
)

// Stats counts unseen-label fallbacks since the process started.
type Stats struct {
	Predictions       int64 `json:"predictions"`
	CustomerFallbacks int64 `json:"customer_fallbacks"`
	RegionFallbacks   int64 `json:"region_fallbacks"`
	ItemFallbacks     int64 `json:"item_fallbacks"`
}

type Service struct {
	ledger        order.Reader
	handle        *ml.Handle
	logger        *slog.Logger
	clampNegative bool

	predictions       atomic.Int64
	customerFallbacks atomic.Int64
	regionFallbacks   atomic.Int64
	itemFallbacks     atomic.Int64
}

func NewService(
	ledger order.Reader,
	handle *ml.Handle,
	logger *slog.Logger,
	clampNegative bool,
) *Service {
	return &Service{
		ledger:        ledger,
		handle:        handle,
		logger:        logger,
		clampNegative: clampNegative,
	}
}

// Bundle returns the bundle currently served, or nil.
func (s *Service) Bundle() *ml.Bundle {
	return s.handle.Current()
}

// RecentPredictions predicts the newest limit orders, newest first.
// With no trained bundle it returns an empty slice and no error.
func (s *Service) RecentPredictions(ctx context.Context, limit int) ([]Result, error) {
	bundle := s.handle.Current()
	if bundle == nil {
		return []Result{}, nil
	}

	records, err := s.ledger.RecentOrders(ctx, limit)
	if err != nil {
		return nil, err
	}

	results := PredictBatch(records, bundle)
	for i := range results {
		s.finish(&results[i])
	}
	return results, nil
}

// Predict answers an ad-hoc query against the current bundle.
func (s *Service) Predict(q Query) (Result, error) {
	res, err := PredictOne(q, s.handle.Current())
	if err != nil {
		return Result{}, err
	}
	s.finish(&res)
	return res, nil
}

func (s *Service) Stats() Stats {
	return Stats{
		Predictions:       s.predictions.Load(),
		CustomerFallbacks: s.customerFallbacks.Load(),
		RegionFallbacks:   s.regionFallbacks.Load(),
		ItemFallbacks:     s.itemFallbacks.Load(),
	}
}

func (s *Service) finish(res *Result) {
	if s.clampNegative && res.PredictedPrice < 0 {
		res.PredictedPrice = 0
	}

	s.predictions.Add(1)
	if !res.Fallback.Any() {
		return
	}
	if res.Fallback.Customer {
		s.customerFallbacks.Add(1)
	}
	if res.Fallback.Region {
		s.regionFallbacks.Add(1)
	}
	if res.Fallback.Item {
		s.itemFallbacks.Add(1)
	}
	s.logger.Debug("unseen_label_fallback",
		"order_id", res.OrderID,
		"customer", res.Fallback.Customer,
		"region", res.Fallback.Region,
		"item", res.Fallback.Item,
	)
}
