package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dyno/internal/menu"
	"dyno/internal/order"
	"dyno/internal/popularity"
	"dyno/internal/prediction"
	"dyno/internal/profile"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	ledger      order.Reader
	profiles    profile.Reader
	menu        menu.Reader
	predictions *prediction.Service
	logger      *slog.Logger
	opts        Options
}

func NewService(
	ledger order.Reader,
	profiles profile.Reader,
	menuReader menu.Reader,
	predictions *prediction.Service,
	logger *slog.Logger,
	opts Options,
) *Service {
	if opts.RecentPredictions <= 0 {
		opts.RecentPredictions = 10
	}
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = popularity.DefaultLimit
	}
	if opts.TopCustomers <= 0 {
		opts.TopCustomers = popularity.DefaultLimit
	}

	return &Service{
		ledger:      ledger,
		profiles:    profiles,
		menu:        menuReader,
		predictions: predictions,
		logger:      logger,
		opts:        opts,
	}
}

// --------------------------------------------------
// Staff dashboard
// --------------------------------------------------

// OverallStats combines the ledger aggregates with the most recent
// predictions. If region is set, suggestions for it are attached.
// Prediction and suggestion failures degrade to empty lists; ledger
// failures are returned.
func (s *Service) OverallStats(ctx context.Context, region string) (*OverallStats, error) {
	var (
		snapshot []order.Order
		recent   []prediction.Result
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snapshot, err = s.ledger.ListOrders(gctx)
		if err != nil {
			return fmt.Errorf("read ledger: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		recent, err = s.predictions.RecentPredictions(gctx, s.opts.RecentPredictions)
		if err != nil {
			s.logger.WarnContext(ctx, "recent_predictions_unavailable", "error", err)
			recent = []prediction.Result{}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &OverallStats{
		Stats:             popularity.GlobalStats(snapshot, s.opts.TopCustomers),
		CityFood:          popularity.TopItemsByRegion(snapshot),
		RecentPredictions: recent,
	}

	if region != "" {
		sugg, err := s.suggest(ctx, region, snapshot, s.opts.SuggestionLimit)
		if err != nil {
			s.logger.WarnContext(ctx, "region_suggestions_unavailable", "region", region, "error", err)
			sugg = &Suggestions{Region: region, Items: []SuggestedItem{}}
		}
		out.RegionSuggestions = sugg
	}

	return out, nil
}

// --------------------------------------------------
// Menu suggestions
// --------------------------------------------------

// SuggestForRegion ranks items for region. An empty or unknown region
// yields the global ranking.
func (s *Service) SuggestForRegion(ctx context.Context, region string, limit int) (*Suggestions, error) {
	snapshot, err := s.ledger.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return s.suggest(ctx, region, snapshot, limit)
}

// SuggestForUser uses the region from the user's profile. Users without a
// profile or region get the global ranking.
func (s *Service) SuggestForUser(ctx context.Context, userID string, limit int) (*Suggestions, error) {
	region, err := s.profiles.GetRegion(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			s.logger.WarnContext(ctx, "profile_region_unavailable", "user_id", userID, "error", err)
		}
		region = ""
	}
	return s.SuggestForRegion(ctx, region, limit)
}

func (s *Service) suggest(ctx context.Context, region string, snapshot []order.Order, limit int) (*Suggestions, error) {
	if limit <= 0 {
		limit = s.opts.SuggestionLimit
	}

	ranked, fallback := popularity.SuggestTopItems(region, snapshot, limit)
	items, err := s.resolve(ctx, ranked)
	if err != nil {
		return nil, err
	}

	// every regional pick was removed from the menu
	if len(items) == 0 && !fallback {
		fallback = true
		items, err = s.resolve(ctx, popularity.RankItems(snapshot, limit))
		if err != nil {
			return nil, err
		}
	}

	return &Suggestions{Region: region, Fallback: fallback, Items: items}, nil
}

// resolve looks up menu records for ranked, keeping rank order and
// skipping items no longer on the menu.
func (s *Service) resolve(ctx context.Context, ranked []popularity.ItemCount) ([]SuggestedItem, error) {
	ids := make([]int64, 0, len(ranked))
	for _, ic := range ranked {
		ids = append(ids, ic.ItemID)
	}

	items, err := s.menu.GetItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve menu items: %w", err)
	}

	out := make([]SuggestedItem, 0, len(ranked))
	for _, ic := range ranked {
		it, ok := items[ic.ItemID]
		if !ok {
			continue
		}
		out = append(out, SuggestedItem{Item: it, OrderCount: ic.Count})
	}
	return out, nil
}
