package domain

// Spec is a specification pair carried through from the dataset.
type Spec = RawSpec

// Product is the canonical, normalized shape served by the API.
type Product struct {
	ID          uint32   `json:"id"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	PriceOld    *float64 `json:"priceOld"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Breadcrumbs []string `json:"breadcrumbs"`
	URL         string   `json:"url,omitempty"`
	Specs       []Spec   `json:"specs,omitempty"`

	// SearchText is the lowercased haystack for text queries, built once per load.
	SearchText string `json:"-"`
}

// Brand is the most specific breadcrumb entry, or "" when the trail is empty.
func (p *Product) Brand() string {
	if len(p.Breadcrumbs) == 0 {
		return ""
	}
	return p.Breadcrumbs[len(p.Breadcrumbs)-1]
}

// Discounted reports whether both prices are known and the old one is higher.
func (p *Product) Discounted() bool {
	return p.Price != nil && p.PriceOld != nil && *p.PriceOld > *p.Price
}

// ProductSummary is the listing projection of a Product.
type ProductSummary struct {
	ID       uint32   `json:"id"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	PriceOld *float64 `json:"priceOld"`
	Image    string   `json:"image"`
	Category string   `json:"category"`
}

func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		PriceOld: p.PriceOld,
		Image:    p.Image,
		Category: p.Category,
	}
}
