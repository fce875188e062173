package usecase

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/corebank/ledger/internal/domain"
)

// CredentialUseCase authenticates login identities at the boundary. It never
// moves money.
type CredentialUseCase struct {
	credentials CredentialRepository
}

// NewCredentialUseCase creates a new CredentialUseCase.
func NewCredentialUseCase(credentials CredentialRepository) *CredentialUseCase {
	return &CredentialUseCase{credentials: credentials}
}

// Authenticate verifies the username/password pair and returns the matching
// credential. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (uc *CredentialUseCase) Authenticate(ctx context.Context, username, password string) (*domain.Credential, error) {
	cred, err := uc.credentials.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}

		return nil, err
	}

	if !cred.Active {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return cred, nil
}
