package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MikeMC777/agromercado/internal/catalog"
	"github.com/MikeMC777/agromercado/internal/idgen"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo       Repository
	bcryptCost int
}

func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

func invalid(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidInput, msg) }

// Register creates a user. A name may be used once per role.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Password == "" {
		return nil, invalid("name and password are required")
	}
	if strings.TrimSpace(in.Mobile) == "" {
		return nil, invalid("mobile is required")
	}
	if !in.Role.Valid() {
		return nil, invalid("user type must be buyer or seller")
	}
	if in.Password != in.ConfirmPassword {
		return nil, invalid("passwords do not match")
	}

	existing, err := s.repo.FindByName(ctx, name, in.Role)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrAlreadyExist
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash error: %w", err)
	}
	u := &User{
		ID:        idgen.New(),
		Name:      name,
		Mobile:    strings.TrimSpace(in.Mobile),
		Password:  hash,
		Role:      in.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("create error: %w", err)
	}
	return u, nil
}

// Authenticate matches name, password and role. A legacy plaintext password
// is replaced by its hash on success.
func (s *Service) Authenticate(ctx context.Context, name, password string, role Role) (*User, error) {
	if name == "" || password == "" {
		return nil, invalid("name and password are required")
	}
	candidates, err := s.repo.FindByName(ctx, strings.TrimSpace(name), role)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		u := &candidates[i]
		ok, legacy := CheckPassword(u.Password, password)
		if !ok {
			continue
		}
		if legacy {
			if hash, err := HashPassword(password, s.bcryptCost); err == nil {
				u.Password = hash
				if err := s.repo.Save(ctx, u); err != nil {
					log.Printf("[user] rehash failed id=%s err=%v", u.ID, err)
				}
			}
		}
		return u, nil
	}
	return nil, ErrInvalidCredentials
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, invalid("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	addr := in.Profile.Address
	if addr.Mandal != "" && !catalog.IsMandal(addr.Mandal) {
		return nil, invalid(fmt.Sprintf("unknown mandal %q", addr.Mandal))
	}
	if addr.State == "" {
		in.Profile.Address.State = catalog.DefaultState
	}

	if n := strings.TrimSpace(in.Name); n != "" && n != u.Name {
		taken, err := s.repo.FindByName(ctx, n, u.Role)
		if err != nil {
			return nil, err
		}
		if len(taken) > 0 {
			return nil, ErrAlreadyExist
		}
		u.Name = n
	}
	if m := strings.TrimSpace(in.Mobile); m != "" {
		u.Mobile = m
	}
	p := in.Profile
	u.Profile = &p

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("update error: %w", err)
	}
	return u, nil
}
