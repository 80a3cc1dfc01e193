package popularity

// DefaultLimit is used when a caller asks for a non-positive number of items.
const DefaultLimit = 5

// NoRegion is reported as the most ordered region of an empty ledger.
const NoRegion = "N/A"

// ItemCount is one ranked item.
type ItemCount struct {
	ItemID int64  `json:"item_id"`
	Item   string `json:"item"`
	Count  int    `json:"order_count"`
}

// RegionTopItem is the single most ordered item of a region.
type RegionTopItem struct {
	ItemID int64  `json:"item_id"`
	Item   string `json:"item"`
	Count  int    `json:"order_count"`
}

type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"order_count"`
}

type CustomerCount struct {
	Customer string `json:"customer"`
	Count    int    `json:"order_count"`
}

// Stats is the model-free part of the staff dashboard.
type Stats struct {
	OrdersByRegion    []RegionCount   `json:"orders_by_region"`
	MostOrderedRegion string          `json:"most_ordered_region"`
	TopCustomers      []CustomerCount `json:"top_customers"`
	TotalOrders       int             `json:"total_orders"`
	TotalCustomers    int             `json:"total_customers"`
}
