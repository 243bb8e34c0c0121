package catalog

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"strings"

	"storefront/catalog/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type predicate struct {
	name  string
	match func(p *domain.Product) bool
}

// filtersFor returns the active filters of q in evaluation order. All must match.
func filtersFor(q domain.ProductQuery) []predicate {
	var filters []predicate

	if text := strings.ToLower(strings.TrimSpace(q.Q)); text != "" {
		filters = append(filters, predicate{
			name: "text",
			match: func(p *domain.Product) bool {
				haystack := p.SearchText
				if haystack == "" {
					haystack = SearchText(p)
				}
				return strings.Contains(haystack, text)
			},
		})
	}

	if category := strings.TrimSpace(q.Category); category != "" {
		lower := strings.ToLower(category)
		filters = append(filters, predicate{
			name: "category",
			match: func(p *domain.Product) bool {
				if p.Category == category {
					return true
				}
				for _, crumb := range p.Breadcrumbs {
					if strings.ToLower(crumb) == lower {
						return true
					}
				}
				// Also matches a substring of the product name.
				return strings.Contains(strings.ToLower(p.Name), lower)
			},
		})
	}

	if brand := strings.TrimSpace(q.Brand); brand != "" {
		filters = append(filters, predicate{
			name:  "brand",
			match: func(p *domain.Product) bool { return p.Brand() == brand },
		})
	}

	if q.Discounted {
		filters = append(filters, predicate{
			name:  "discounted",
			match: func(p *domain.Product) bool { return p.Discounted() },
		})
	}

	return filters
}

// Query filters, sorts and paginates products. The input slice is not modified.
func Query(products []domain.Product, q domain.ProductQuery) domain.ProductPage {
	filters := filtersFor(q)

	matched := make([]domain.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		ok := true
		for _, f := range filters {
			if !f.match(p) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, *p)
		}
	}

	sortProducts(matched, q.Sort)

	offset, limit := Window(q.Offset, q.Limit)
	page := domain.ProductPage{Total: len(matched), Items: []domain.Product{}}
	if offset < len(matched) {
		end := min(offset+limit, len(matched))
		page.Items = matched[offset:end]
	}
	return page
}

// Window normalizes pagination: negative offsets become 0, a zero limit becomes
// the default and any other limit is clamped to [1, MaxLimit].
func Window(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit == 0 {
		limit = domain.DefaultLimit
	}
	return offset, max(1, min(domain.MaxLimit, limit))
}

func sortProducts(items []domain.Product, order domain.SortOrder) {
	switch order {
	case domain.SortByPriceLow:
		slices.SortStableFunc(items, func(a, b domain.Product) int {
			return cmp.Compare(priceOr(a.Price, math.Inf(1)), priceOr(b.Price, math.Inf(1)))
		})
	case domain.SortByPriceHigh:
		slices.SortStableFunc(items, func(a, b domain.Product) int {
			return cmp.Compare(priceOr(b.Price, math.Inf(-1)), priceOr(a.Price, math.Inf(-1)))
		})
	default:
		col := newCollator()
		slices.SortStableFunc(items, func(a, b domain.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
}

func priceOr(price *float64, absent float64) float64 {
	if price == nil {
		return absent
	}
	return *price
}

// GetByID returns the first product carrying id.
func GetByID(products []domain.Product, id uint32) (domain.Product, error) {
	for i := range products {
		if products[i].ID == id {
			return products[i], nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}
