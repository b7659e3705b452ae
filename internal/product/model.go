package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/agromercado/internal/jsondate"
)

// Prices are written as JSON numbers, the way the browser app stored them.
func init() { decimal.MarshalJSONWithoutQuotes = true }

type Category string

const (
	Vegetables Category = "vegetables"
	Fruits     Category = "fruits"
	Pulses     Category = "pulses"
)

var Categories = []Category{Vegetables, Fruits, Pulses}

func (c Category) Valid() bool {
	switch c {
	case Vegetables, Fruits, Pulses:
		return true
	}
	return false
}

type Review struct {
	ID        string        `json:"id"`
	BuyerID   string        `json:"buyerId"`
	BuyerName string        `json:"buyerName"`
	Rating    int           `json:"rating"`
	Comment   string        `json:"comment"`
	Date      jsondate.Time `json:"date"`
}

// Product is a seller's listing. Price is per kg and Quantity is the kg
// available. AverageRating is the mean of Reviews[].Rating; see AddReview.
type Product struct {
	ID            string          `json:"id"`
	SellerID      string          `json:"sellerId"`
	SellerName    string          `json:"sellerName"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Image         string          `json:"image"`
	Description   string          `json:"description,omitempty"`
	Reviews       []Review        `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (p *Product) InStock() bool { return p.Quantity > 0 }

// CreateProductRequest is the payload of the add-product form.
type CreateProductRequest struct {
	Name        string
	Category    Category
	Price       decimal.Decimal
	Quantity    int
	Image       string
	Description string
}

// UpdateProductRequest is a partial update: nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string
	Category    *Category
	Price       *decimal.Decimal
	Quantity    *int
	Image       *string
	Description *string
}
