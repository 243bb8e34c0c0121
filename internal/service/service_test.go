package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/catalog/internal/catalog"
	"storefront/catalog/internal/domain"
	"storefront/catalog/internal/store"
)

type fakeStore struct {
	products []domain.Product
	err      error
	loads    int
}

func (f *fakeStore) LoadAll(ctx context.Context) ([]domain.Product, error) {
	f.loads++
	return f.products, f.err
}

func (f *fakeStore) Stats() store.Stats {
	return store.Stats{Kept: len(f.products)}
}

func price(v float64) *float64 { return &v }

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestService(err error) (*Service, *fakeStore) {
	fs := &fakeStore{
		err: err,
		products: []domain.Product{
			{ID: 1, Name: "Drill", Price: price(19.99), Category: "Tools", Breadcrumbs: []string{"Tools", "Bosch"}},
			{ID: 2, Name: "Saw", Price: nil, Category: "Tools"},
			{ID: 3, Name: "Phone", Price: price(0.1), Category: "Phones"},
		},
	}
	return NewService(fs, func() time.Time { return fixedNow }), fs
}

func validCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{Name: " Ana ", Phone: "+373 600 00 000", Address: "Chisinau"}
}

func TestCheckout(t *testing.T) {
	svc, _ := newTestService(nil)

	order, err := svc.Checkout(context.Background(), domain.CheckoutRequest{
		Items:    []domain.CartLine{{ID: 1, Quantity: 3}, {ID: 2, Quantity: 1}, {ID: 3, Quantity: 3}},
		Customer: validCustomer(),
	})
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}

	if order.ID != "ORD-1709285400000" {
		t.Fatalf("order id = %q", order.ID)
	}
	if order.Status != domain.OrderPending || !order.CreatedAt.Equal(fixedNow) {
		t.Fatalf("status/createdAt = %s / %s", order.Status, order.CreatedAt)
	}
	if got := order.Total.StringFixed(2); got != "60.27" {
		t.Fatalf("total = %s want 60.27", got)
	}
	if got := order.Items[0].LineTotal.StringFixed(2); got != "59.97" {
		t.Fatalf("line total = %s want 59.97", got)
	}
	if !order.Items[1].PriceOnRequest || !order.Items[1].LineTotal.IsZero() {
		t.Fatalf("priceless line = %+v", order.Items[1])
	}
	if order.CustomerInfo.Name != "Ana" {
		t.Fatalf("customer name not trimmed: %q", order.CustomerInfo.Name)
	}
}

func TestCheckoutRejectsInvalidOrders(t *testing.T) {
	cases := []struct {
		name string
		req  domain.CheckoutRequest
	}{
		{name: "empty cart", req: domain.CheckoutRequest{Customer: validCustomer()}},
		{name: "zero quantity", req: domain.CheckoutRequest{Items: []domain.CartLine{{ID: 1}}, Customer: validCustomer()}},
		{name: "huge quantity", req: domain.CheckoutRequest{Items: []domain.CartLine{{ID: 1, Quantity: 5000}}, Customer: validCustomer()}},
		{name: "unknown product", req: domain.CheckoutRequest{Items: []domain.CartLine{{ID: 42, Quantity: 1}}, Customer: validCustomer()}},
		{name: "missing phone", req: domain.CheckoutRequest{
			Items:    []domain.CartLine{{ID: 1, Quantity: 1}},
			Customer: domain.CustomerInfo{Name: "Ana", Address: "Chisinau", Phone: "  "},
		}},
	}

	svc, _ := newTestService(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Checkout(context.Background(), tc.req); !errors.Is(err, ErrInvalidOrder) {
				t.Fatalf("err = %v want ErrInvalidOrder", err)
			}
		})
	}
}

func TestServicePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("dataset unavailable")
	svc, _ := newTestService(boom)
	ctx := context.Background()

	if _, err := svc.Products(ctx, domain.ProductQuery{}); !errors.Is(err, boom) {
		t.Fatalf("Products err = %v", err)
	}
	if _, err := svc.Product(ctx, 1); !errors.Is(err, boom) {
		t.Fatalf("Product err = %v", err)
	}
	if _, err := svc.Categories(ctx); !errors.Is(err, boom) {
		t.Fatalf("Categories err = %v", err)
	}
	if err := svc.Warmup(ctx); !errors.Is(err, boom) {
		t.Fatalf("Warmup err = %v", err)
	}
	req := domain.CheckoutRequest{Items: []domain.CartLine{{ID: 1, Quantity: 1}}, Customer: validCustomer()}
	if _, err := svc.Checkout(ctx, req); !errors.Is(err, boom) {
		t.Fatalf("Checkout err = %v", err)
	}
}

func TestServiceQueries(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	page, err := svc.Products(ctx, domain.ProductQuery{Category: "Tools"})
	if err != nil || page.Total != 2 {
		t.Fatalf("Products = %+v, %v", page, err)
	}

	if _, err := svc.Product(ctx, 99); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("Product err = %v", err)
	}

	summary, err := svc.Categories(ctx)
	if err != nil || summary.Counts["Tools"] != 2 {
		t.Fatalf("Categories = %+v, %v", summary, err)
	}
}
