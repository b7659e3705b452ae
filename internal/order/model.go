package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/agromercado/internal/cart"
	"github.com/MikeMC777/agromercado/internal/jsondate"
	"github.com/MikeMC777/agromercado/internal/user"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusDelivered Status = "delivered"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusDelivered:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
// Rejected and delivered are terminal.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order is the part of a checkout addressed to one seller. Items are the cart
// lines as they were at checkout, including the product snapshot and price.
type Order struct {
	ID           string          `json:"id"`
	BuyerID      string          `json:"buyerId"`
	BuyerName    string          `json:"buyerName"`
	SellerID     string          `json:"sellerId"`
	Items        []cart.Item     `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       Status          `json:"status"`
	OrderDate    jsondate.Time   `json:"orderDate"`
	BuyerAddress user.Address    `json:"buyerAddress"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (o *Order) HasProduct(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// SellerSummary backs the seller dashboard.
type SellerSummary struct {
	TotalProducts int
	TotalRevenue  decimal.Decimal
	PendingOrders int
	AverageRating float64
}
