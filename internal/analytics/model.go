package analytics

import (
	"dyno/internal/menu"
	"dyno/internal/popularity"
	"dyno/internal/prediction"
)

// Options sizes the windows the dashboard shows.
type Options struct {
	RecentPredictions int
	SuggestionLimit   int
	TopCustomers      int
}

// SuggestedItem is a menu record with the order count it was ranked by.
type SuggestedItem struct {
	menu.Item
	OrderCount int `json:"order_count"`
}

// Suggestions is an ordered list of popular items for a region.
// Fallback is set when the region had no orders and the global ranking
// was used instead.
type Suggestions struct {
	Region   string          `json:"region"`
	Fallback bool            `json:"fallback"`
	Items    []SuggestedItem `json:"items"`
}

// OverallStats is the staff dashboard payload.
type OverallStats struct {
	popularity.Stats

	CityFood          map[string]popularity.RegionTopItem `json:"city_food"`
	RecentPredictions []prediction.Result                 `json:"recent_predictions"`
	RegionSuggestions *Suggestions                        `json:"region_suggestions,omitempty"`
}
