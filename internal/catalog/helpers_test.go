package catalog

import "storefront/catalog/internal/domain"

func price(v float64) *float64 { return &v }

func product(id uint32, name, category string, p *float64, crumbs ...string) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       p,
		Breadcrumbs: crumbs,
		Image:       "/images/" + name + ".jpg",
	}
}

func ids(items []domain.Product) []uint32 {
	out := make([]uint32, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}
