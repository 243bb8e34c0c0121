package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// OrderPending is the status of every placed order. Orders are not tracked further.
const OrderPending OrderStatus = "pending"

// CartLine is one cart entry sent by the client at checkout.
type CartLine struct {
	ID       uint32 `json:"id"`
	Quantity int    `json:"quantity"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// CheckoutRequest is the body of a simulated checkout.
type CheckoutRequest struct {
	Items    []CartLine   `json:"items"`
	Customer CustomerInfo `json:"customerInfo"`
}

type OrderLine struct {
	ID             uint32          `json:"id"`
	Name           string          `json:"name"`
	Price          *float64        `json:"price"`
	Quantity       int             `json:"quantity"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
	PriceOnRequest bool            `json:"priceOnRequest,omitempty"`
}

// Order is a priced cart. It is never stored.
type Order struct {
	ID           string          `json:"id"`
	Items        []OrderLine     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	CustomerInfo CustomerInfo    `json:"customerInfo"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}
