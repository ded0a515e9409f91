// Package users declares the server-side repository contract for the
// credential store: the relational table of registered accounts.
package users

import (
	"context"

	"github.com/tickpulse/tickpulse/internal/server/models"
)

// Repository defines operations for creating and looking up users.
type Repository interface {
	// Create inserts a new user and returns it with the generated id.
	// A duplicate email returns common.ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail looks up a user by email. Implementations return
	// common.ErrorNotFound when the user is absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID looks up a user by id. Implementations return
	// common.ErrorNotFound when the user is absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
