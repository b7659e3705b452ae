package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MikeMC777/agromercado/internal/catalog"
	"github.com/MikeMC777/agromercado/internal/idgen"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("product belongs to another seller")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func invalid(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidInput, msg) }

// Create lists a new product for the seller.
func (s *Service) Create(ctx context.Context, sellerID, sellerName string, in CreateProductRequest) (*Product, error) {
	if sellerID == "" {
		return nil, invalid("seller is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if !in.Category.Valid() {
		return nil, invalid(fmt.Sprintf("unknown category %q", in.Category))
	}
	if !in.Price.IsPositive() {
		return nil, invalid("price must be positive")
	}
	if in.Quantity < 0 {
		return nil, invalid("quantity must be non-negative")
	}
	img := strings.TrimSpace(in.Image)
	if img == "" {
		img = catalog.ImageFor(name)
	}

	now := time.Now().UTC()
	p := &Product{
		ID:          idgen.New(),
		SellerID:    sellerID,
		SellerName:  sellerName,
		Name:        name,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Image:       img,
		Description: strings.TrimSpace(in.Description),
		Reviews:     []Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("create error: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, q Query) ([]Product, error) {
	return s.repo.List(ctx, q)
}

// owned loads a product and checks it belongs to sellerID.
func (s *Service) owned(ctx context.Context, sellerID, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, ErrForbidden
	}
	return p, nil
}

// Update applies the set fields of in. Reviews and rating are not editable.
func (s *Service) Update(ctx context.Context, sellerID, id string, in UpdateProductRequest) (*Product, error) {
	p, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return nil, invalid("name cannot be empty")
		}
		p.Name = n
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, invalid(fmt.Sprintf("unknown category %q", *in.Category))
		}
		p.Category = *in.Category
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, invalid("price must be positive")
		}
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, invalid("quantity must be non-negative")
		}
		p.Quantity = *in.Quantity
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update error: %w", err)
	}
	return p, nil
}

// Delete removes the listing. Carts and orders that reference it keep their
// snapshots.
func (s *Service) Delete(ctx context.Context, sellerID, id string) error {
	if _, err := s.owned(ctx, sellerID, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
