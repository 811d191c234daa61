// Package users declares and implements storage for principals.
package users

import (
	"context"

	"github.com/dmitrijs2005/timecheck/internal/server/models"
)

// Repository stores users keyed by normalized email.
type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A duplicate email
	// yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail returns common.ErrorNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
