package popularity

import (
	"cmp"
	"slices"
	"strings"

	"dyno/internal/order"
)

// All functions here are pure over the snapshot they are given.
// Snapshots are expected in ledger order (ascending order id); first-seen
// tie-breaks depend on it.

// TopItemsByRegion returns, per region, the item with the most orders.
// Among items with equal counts the one seen first in the snapshot wins.
func TopItemsByRegion(snapshot []order.Order) map[string]RegionTopItem {
	type group struct {
		order  []int64
		counts map[int64]*ItemCount
	}
	groups := make(map[string]*group)

	for _, o := range snapshot {
		region := o.RegionOrUnknown()
		g, ok := groups[region]
		if !ok {
			g = &group{counts: make(map[int64]*ItemCount)}
			groups[region] = g
		}
		ic, ok := g.counts[o.ItemID]
		if !ok {
			ic = &ItemCount{ItemID: o.ItemID, Item: o.Item()}
			g.counts[o.ItemID] = ic
			g.order = append(g.order, o.ItemID)
		}
		ic.Count++
	}

	top := make(map[string]RegionTopItem, len(groups))
	for region, g := range groups {
		var best *ItemCount
		for _, id := range g.order {
			if ic := g.counts[id]; best == nil || ic.Count > best.Count {
				best = ic
			}
		}
		top[region] = RegionTopItem{ItemID: best.ItemID, Item: best.Item, Count: best.Count}
	}
	return top
}

// RankItems ranks every item in the snapshot by descending order count,
// ties by ascending item id, and returns at most limit entries.
func RankItems(snapshot []order.Order, limit int) []ItemCount {
	if limit <= 0 {
		limit = DefaultLimit
	}

	counts := make(map[int64]*ItemCount)
	for _, o := range snapshot {
		ic, ok := counts[o.ItemID]
		if !ok {
			ic = &ItemCount{ItemID: o.ItemID, Item: o.Item()}
			counts[o.ItemID] = ic
		}
		ic.Count++
	}

	ranked := make([]ItemCount, 0, len(counts))
	for _, ic := range counts {
		ranked = append(ranked, *ic)
	}
	slices.SortFunc(ranked, func(a, b ItemCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemID, b.ItemID)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// SuggestTopItems ranks items ordered in region (case-insensitive).
// Orders without a region never match, so "Unknown" is not a region here.
// When the region has no orders the global ranking is returned and
// fallback is true.
func SuggestTopItems(region string, snapshot []order.Order, limit int) (items []ItemCount, fallback bool) {
	var local []order.Order
	for _, o := range snapshot {
		if o.Region != nil && strings.EqualFold(*o.Region, region) {
			local = append(local, o)
		}
	}

	if len(local) == 0 {
		return RankItems(snapshot, limit), true
	}
	return RankItems(local, limit), false
}

// GlobalStats aggregates order counts per region and per customer.
// Regions with equal counts keep first-seen order; customers with equal
// counts are ordered by label. Orders without a customer count towards
// the totals but not towards any customer.
func GlobalStats(snapshot []order.Order, topCustomers int) Stats {
	if topCustomers <= 0 {
		topCustomers = DefaultLimit
	}

	var regions []RegionCount
	regionIdx := make(map[string]int)
	customers := make(map[string]int)

	for _, o := range snapshot {
		region := o.RegionOrUnknown()
		i, ok := regionIdx[region]
		if !ok {
			i = len(regions)
			regionIdx[region] = i
			regions = append(regions, RegionCount{Region: region})
		}
		regions[i].Count++

		if o.CustomerID != nil {
			customers[*o.CustomerID]++
		}
	}

	slices.SortStableFunc(regions, func(a, b RegionCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	ranked := make([]CustomerCount, 0, len(customers))
	for c, n := range customers {
		ranked = append(ranked, CustomerCount{Customer: c, Count: n})
	}
	slices.SortFunc(ranked, func(a, b CustomerCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Customer, b.Customer)
	})
	if len(ranked) > topCustomers {
		ranked = ranked[:topCustomers]
	}

	stats := Stats{
		OrdersByRegion:    regions,
		MostOrderedRegion: NoRegion,
		TopCustomers:      ranked,
		TotalOrders:       len(snapshot),
		TotalCustomers:    len(customers),
	}
	if stats.OrdersByRegion == nil {
		stats.OrdersByRegion = []RegionCount{}
	}
	if len(regions) > 0 {
		stats.MostOrderedRegion = regions[0].Region
	}
	return stats
}
