package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/elhossary/offerwall-api/internal/pkg/kv"
)

const TableUsers = "users"

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// repository keeps all users in one kv table
type repository struct {
	users *kv.Collection[User]
}

// NewRepository creates new user repository
func NewRepository(store kv.Store) Repository {
	return &repository{users: kv.NewCollection[User](store, TableUsers)}
}

// Create creates a new user. Emails are unique case-insensitively.
func (r *repository) Create(ctx context.Context, user *User) error {
	err := r.users.Update(ctx, nil, func(items []User) ([]User, error) {
		for _, existing := range items {
			if strings.EqualFold(existing.Email, user.Email) {
				return nil, ErrEmailAlreadyExists
			}
		}
		return append(items, *user), nil
	})
	if err != nil {
		if err == ErrEmailAlreadyExists {
			return err
		}
		return fmt.Errorf("user repository create: %w", err)
	}
	return nil
}

// GetByID returns user by ID, or nil when absent
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.find(ctx, func(u *User) bool { return u.ID == id })
}

// GetByEmail returns user by email, or nil when absent
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.find(ctx, func(u *User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *repository) find(ctx context.Context, match func(*User) bool) (*User, error) {
	items, err := r.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("user repository load: %w", err)
	}
	for i := range items {
		if match(&items[i]) {
			u := items[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Update replaces the stored user with the same ID
func (r *repository) Update(ctx context.Context, user *User) error {
	err := r.users.Update(ctx, nil, func(items []User) ([]User, error) {
		for i := range items {
			if items[i].ID == user.ID {
				items[i] = *user
				return items, nil
			}
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		if err == ErrUserNotFound {
			return err
		}
		return fmt.Errorf("user repository update: %w", err)
	}
	return nil
}
