package auth

import (
	"context"
	"fmt"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
)

// Verifier resolves a bearer credential to a user identity at connect time.
// It runs before any other core operation on a new connection; failure means
// the connection is refused and no presence state is created.
type Verifier struct {
	tokens *TokenManager
	users  contract.IUserDirectory
	log    *slog.Logger
}

func NewVerifier(log *slog.Logger, tokens *TokenManager, users contract.IUserDirectory) *Verifier {
	return &Verifier{tokens: tokens, users: users, log: log}
}

// Verify validates the token signature and expiry, then resolves the claimed
// user against the store. Every failure collapses to ErrUnauthenticated so
// callers cannot distinguish a bad token from a deleted account.
func (v *Verifier) Verify(ctx context.Context, credential string) (domain.UserIdentity, error) {
	if credential == "" {
		return domain.UserIdentity{}, errors.ErrUnauthenticated
	}
	claims, err := v.tokens.Validate(credential)
	if err != nil {
		v.log.Debug("token rejected", "error", err)
		return domain.UserIdentity{}, fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}
	identity, err := v.users.GetUser(ctx, domain.UserID(claims.UserID))
	if err != nil {
		v.log.Debug("token user not found", "user_id", claims.UserID)
		return domain.UserIdentity{}, errors.ErrUnauthenticated
	}
	return identity, nil
}
