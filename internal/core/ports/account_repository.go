package ports

import (
	"context"

	"github.com/artisan-avenue/auth-service/internal/core/domain"
)

// AccountRepository defines the persistence contract for accounts.
//
// Lookups return domain.ErrAccountNotFound on a miss. Create returns
// domain.ErrEmailTaken or domain.ErrUsernameTaken when a unique index is
// violated, including the race where two registrations for the same email
// land concurrently.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
}
