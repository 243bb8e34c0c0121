package domain

type SortOrder string

func (s SortOrder) String() string {
	return string(s)
}

const (
	SortByName      SortOrder = "name"
	SortByPriceLow  SortOrder = "price-low"
	SortByPriceHigh SortOrder = "price-high"
)

const (
	DefaultLimit = 30
	MaxLimit     = 100
)

// ProductQuery holds the listing filters. Zero values mean "not set".
type ProductQuery struct {
	Q          string
	Category   string
	Brand      string
	Sort       SortOrder
	Offset     int
	Limit      int
	Discounted bool
}

// ProductPage is a paginated query result; Total counts matches before pagination.
type ProductPage struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}
