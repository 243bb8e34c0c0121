package catalog

import (
	"slices"

	"storefront/catalog/internal/domain"
)

// Categories counts products per category, sorted by name.
func Categories(products []domain.Product) []domain.CategoryCount {
	counts, order := countBy(products, func(p *domain.Product) string { return p.Category })

	out := make([]domain.CategoryCount, 0, len(order))
	for _, name := range order {
		out = append(out, domain.CategoryCount{Name: name, Count: counts[name]})
	}
	sortCounts(out)
	return out
}

// CategoryTree is Categories with per-category brand counts. A brand is the last
// breadcrumb and is only counted when it differs from the category itself.
func CategoryTree(products []domain.Product) []domain.CategoryNode {
	counts, order := countBy(products, func(p *domain.Product) string { return p.Category })

	brands := make(map[string]map[string]int, len(order))
	brandOrder := make(map[string][]string, len(order))
	for i := range products {
		p := &products[i]
		brand := p.Brand()
		if brand == "" || brand == p.Category {
			continue
		}
		m, ok := brands[p.Category]
		if !ok {
			m = map[string]int{}
			brands[p.Category] = m
		}
		if _, seen := m[brand]; !seen {
			brandOrder[p.Category] = append(brandOrder[p.Category], brand)
		}
		m[brand]++
	}

	out := make([]domain.CategoryNode, 0, len(order))
	for _, name := range order {
		node := domain.CategoryNode{
			Name:   name,
			Count:  counts[name],
			Brands: make([]domain.CategoryCount, 0, len(brandOrder[name])),
		}
		for _, brand := range brandOrder[name] {
			node.Brands = append(node.Brands, domain.CategoryCount{Name: brand, Count: brands[name][brand]})
		}
		sortCounts(node.Brands)
		out = append(out, node)
	}

	col := newCollator()
	slices.SortStableFunc(out, func(a, b domain.CategoryNode) int {
		return col.CompareString(a.Name, b.Name)
	})
	return out
}

// CategoryImages maps each category in names to the image of its first product.
func CategoryImages(products []domain.Product, names []string) map[string]string {
	images := make(map[string]string, len(names))
	for _, name := range names {
		for i := range products {
			if products[i].Category == name && products[i].Image != "" {
				images[name] = products[i].Image
				break
			}
		}
	}
	return images
}

// Summarize builds the full category payload served by the categories endpoint.
func Summarize(products []domain.Product) domain.CategorySummary {
	flat := Categories(products)

	summary := domain.CategorySummary{
		Items:  make([]string, 0, len(flat)),
		Counts: make(map[string]int, len(flat)),
		Tree:   CategoryTree(products),
	}
	for _, c := range flat {
		summary.Items = append(summary.Items, c.Name)
		summary.Counts[c.Name] = c.Count
	}
	summary.Images = CategoryImages(products, summary.Items)
	return summary
}

func countBy(products []domain.Product, key func(p *domain.Product) string) (map[string]int, []string) {
	counts := map[string]int{}
	var order []string
	for i := range products {
		k := key(&products[i])
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	return counts, order
}

func sortCounts(items []domain.CategoryCount) {
	col := newCollator()
	slices.SortStableFunc(items, func(a, b domain.CategoryCount) int {
		return col.CompareString(a.Name, b.Name)
	})
}
