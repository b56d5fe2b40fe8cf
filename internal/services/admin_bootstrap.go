package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/store"
	"github.com/harentsoaR/gym-api/internal/utils"
)

// ErrUsernameTaken is returned by EnsureAdmin when the username belongs to a
// non-admin account.
var ErrUsernameTaken = errors.New("username is taken by a non-admin account")

// EnsureAdmin creates an Admin account unless one with username already
// exists. It reports whether an account was created.
func EnsureAdmin(ctx context.Context, users store.Collection[models.User], username, password string, cost int) (*models.User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, fmt.Errorf("admin username is empty")
	}

	existing, err := users.List(ctx, store.Filter{"username": username})
	if err != nil {
		return nil, false, errors.Wrap(err, "look up admin")
	}
	if len(existing) > 0 {
		if existing[0].Role != models.RoleAdmin {
			return nil, false, errors.WithStack(ErrUsernameTaken)
		}
		return &existing[0], false, nil
	}

	if len(password) < 6 {
		return nil, false, fmt.Errorf("admin password must be at least 6 characters")
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, false, errors.Wrap(err, "hash admin password")
	}
	admin := &models.User{
		Base:     models.NewBase(time.Now().UTC()),
		Username: username,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := users.Insert(ctx, admin); err != nil {
		return nil, false, errors.Wrap(err, "insert admin")
	}
	return admin, true, nil
}
