package usecase

import (
	"context"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

// resolveCaller maps an auth token identity to a stored user. missingMsg is
// the message used when the identity is valid but has no user record.
func resolveCaller(ctx context.Context, users repository.UserRepository, identity, missingMsg string) (*entity.User, error) {
	if identity == "" {
		return nil, errors.Unauthorized("Not authenticated", nil)
	}

	user, err := users.GetByTokenIdentifier(ctx, identity)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.NotFound(missingMsg, err)
		}
		return nil, err
	}
	return user, nil
}
