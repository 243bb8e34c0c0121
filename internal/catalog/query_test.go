package catalog

import (
	"errors"
	"reflect"
	"testing"

	"storefront/catalog/internal/domain"
)

func sampleProducts() []domain.Product {
	drill := product(1, "Cordless Drill", "Tools", price(120), "Tools", "Bosch")
	drill.Description = "<p>Powerful <b>18V</b> drill</p>"
	drill.Specs = []domain.Spec{{Name: "Voltage", Value: "18 V"}}
	drill.PriceOld = price(150)

	saw := product(2, "Circular Saw", "Tools", nil, "Tools", "Makita")
	phone := product(3, "acme phone", "Phones", price(300), "Electronics", "Phones", "Acme")
	toolbox := product(4, "Tools Organizer", "Storage", price(40), "Storage")
	cheap := product(5, "Bit Set", "Tools", price(15), "Tools", "Bosch")
	cheap.PriceOld = price(10)

	products := []domain.Product{drill, saw, phone, toolbox, cheap}
	for i := range products {
		products[i].SearchText = SearchText(&products[i])
	}
	return products
}

func TestQueryFilters(t *testing.T) {
	cases := []struct {
		name  string
		query domain.ProductQuery
		want  []uint32
	}{
		{name: "no filters sorted by name", query: domain.ProductQuery{}, want: []uint32{3, 5, 2, 1, 4}},
		{name: "text in name", query: domain.ProductQuery{Q: "  SAW "}, want: []uint32{2}},
		{name: "text in flattened description", query: domain.ProductQuery{Q: "powerful 18v drill"}, want: []uint32{1}},
		{name: "text in spec pair", query: domain.ProductQuery{Q: "voltage 18"}, want: []uint32{1}},
		{name: "exact category", query: domain.ProductQuery{Category: "Phones"}, want: []uint32{3}},
		{name: "breadcrumb case-insensitive", query: domain.ProductQuery{Category: "electronics"}, want: []uint32{3}},
		{name: "category matches name substring", query: domain.ProductQuery{Category: "tools"}, want: []uint32{5, 2, 1, 4}},
		{name: "brand exact", query: domain.ProductQuery{Brand: "Bosch"}, want: []uint32{5, 1}},
		{name: "brand is case-sensitive", query: domain.ProductQuery{Brand: "bosch"}, want: []uint32{}},
		{name: "discounted", query: domain.ProductQuery{Discounted: true}, want: []uint32{1}},
		{name: "combined", query: domain.ProductQuery{Category: "Tools", Brand: "Bosch", Q: "drill"}, want: []uint32{1}},
	}

	products := sampleProducts()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := Query(products, tc.query)
			if got := ids(page.Items); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ids = %v want %v", got, tc.want)
			}
			if page.Total != len(tc.want) {
				t.Fatalf("total = %d want %d", page.Total, len(tc.want))
			}
		})
	}
}

func TestQueryTextMatchesRawDescription(t *testing.T) {
	lamp := product(1, "Desk Lamp", "Lighting", price(25))
	lamp.Description = "<p>Power&amp;Light</p>\n\nline  two"
	lamp.SearchText = SearchText(&lamp)
	products := []domain.Product{lamp}

	cases := []struct {
		name string
		q    string
		want int
	}{
		{name: "markup tag", q: "<p>", want: 1},
		{name: "html entity", q: "&amp;", want: 1},
		{name: "repeated spaces outside markup", q: "line  two", want: 1},
		{name: "newlines kept", q: "</p>\n\nline", want: 1},
		{name: "flattened text", q: "power&light line two", want: 1},
		{name: "no match", q: "ceiling", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Query(products, domain.ProductQuery{Q: tc.q}).Total; got != tc.want {
				t.Fatalf("total for %q = %d want %d", tc.q, got, tc.want)
			}
		})
	}
}

func TestQuerySortByPrice(t *testing.T) {
	products := sampleProducts()

	low := Query(products, domain.ProductQuery{Sort: domain.SortByPriceLow})
	if got, want := ids(low.Items), []uint32{5, 4, 1, 3, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("price-low = %v want %v", got, want)
	}

	high := Query(products, domain.ProductQuery{Sort: domain.SortByPriceHigh})
	if got, want := ids(high.Items), []uint32{3, 1, 4, 5, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("price-high = %v want %v", got, want)
	}
}

func TestQuerySortIsStable(t *testing.T) {
	products := []domain.Product{
		product(1, "a", "X", nil),
		product(2, "b", "X", price(5)),
		product(3, "c", "X", nil),
		product(4, "d", "X", price(5)),
	}
	page := Query(products, domain.ProductQuery{Sort: domain.SortByPriceLow})
	if got, want := ids(page.Items), []uint32{2, 4, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v want %v", got, want)
	}
}

func TestQueryPagination(t *testing.T) {
	products := make([]domain.Product, 0, 250)
	for i := 0; i < 250; i++ {
		products = append(products, product(uint32(i+1), "item", "X", price(float64(i))))
	}

	first := Query(products, domain.ProductQuery{Sort: domain.SortByPriceLow, Limit: 10})
	second := Query(products, domain.ProductQuery{Sort: domain.SortByPriceLow, Limit: 10, Offset: 10})
	if first.Total != 250 || second.Total != 250 {
		t.Fatalf("totals = %d, %d want 250", first.Total, second.Total)
	}
	if first.Items[9].ID != 10 || second.Items[0].ID != 11 {
		t.Fatalf("pages overlap: first ends at %d, second starts at %d", first.Items[9].ID, second.Items[0].ID)
	}

	cases := []struct {
		name      string
		offset    int
		limit     int
		wantCount int
	}{
		{name: "default limit", wantCount: domain.DefaultLimit},
		{name: "clamped to max", limit: 1000, wantCount: domain.MaxLimit},
		{name: "negative limit becomes one", limit: -5, wantCount: 1},
		{name: "negative offset", offset: -3, limit: 5, wantCount: 5},
		{name: "offset past end", offset: 300, wantCount: 0},
		{name: "tail", offset: 245, limit: 10, wantCount: 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := Query(products, domain.ProductQuery{Offset: tc.offset, Limit: tc.limit})
			if len(page.Items) != tc.wantCount {
				t.Fatalf("items = %d want %d", len(page.Items), tc.wantCount)
			}
			if page.Items == nil {
				t.Fatal("items must be an empty slice, not nil")
			}
		})
	}
}

func TestQueryDoesNotReorderInput(t *testing.T) {
	products := sampleProducts()
	before := ids(products)
	Query(products, domain.ProductQuery{Sort: domain.SortByPriceHigh})
	if got := ids(products); !reflect.DeepEqual(got, before) {
		t.Fatalf("input reordered: %v", got)
	}
}

func TestGetByID(t *testing.T) {
	products := sampleProducts()
	products = append(products, product(3, "duplicate", "X", nil))

	p, err := GetByID(products, 3)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if p.Name != "acme phone" {
		t.Fatalf("got %q, want the first product with the id", p.Name)
	}

	if _, err := GetByID(products, 999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v want ErrProductNotFound", err)
	}
}
