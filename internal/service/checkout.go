package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"storefront/catalog/internal/catalog"
	"storefront/catalog/internal/domain"
)

var ErrInvalidOrder = errors.New("invalid order")

const maxLineQuantity = 999

// Checkout prices a cart against the served collection and returns a pending order.
// Orders are logged, never stored.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error) {
	if err := validateCustomer(req.Customer); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidOrder)
	}

	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		Items:        make([]domain.OrderLine, 0, len(req.Items)),
		Total:        decimal.Zero,
		CustomerInfo: trimCustomer(req.Customer),
		Status:       domain.OrderPending,
	}

	for _, item := range req.Items {
		if item.Quantity < 1 || item.Quantity > maxLineQuantity {
			return nil, fmt.Errorf("%w: quantity for product %d must be between 1 and %d", ErrInvalidOrder, item.ID, maxLineQuantity)
		}
		p, err := catalog.GetByID(products, item.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return nil, fmt.Errorf("%w: unknown product %d", ErrInvalidOrder, item.ID)
			}
			return nil, err
		}

		line := domain.OrderLine{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  item.Quantity,
			LineTotal: decimal.Zero,
		}
		if p.Price == nil {
			line.PriceOnRequest = true
		} else {
			line.LineTotal = decimal.NewFromFloat(*p.Price).Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		}
		order.Total = order.Total.Add(line.LineTotal)
		order.Items = append(order.Items, line)
	}

	now := s.now()
	order.ID = fmt.Sprintf("ORD-%d", now.UnixMilli())
	order.CreatedAt = now

	log.WithFields(log.Fields{
		"order": order.ID,
		"lines": len(order.Items),
		"total": order.Total.StringFixed(2),
	}).Info("🛒 Order placed")

	return order, nil
}

func validateCustomer(c domain.CustomerInfo) error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(c.Address) == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing customer %s", ErrInvalidOrder, strings.Join(missing, ", "))
	}
	return nil
}

func trimCustomer(c domain.CustomerInfo) domain.CustomerInfo {
	return domain.CustomerInfo{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		Notes:   strings.TrimSpace(c.Notes),
	}
}
