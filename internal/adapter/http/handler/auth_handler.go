package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/corebank/ledger/internal/adapter/http/dto"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/infrastructure/auth"
)

// CredentialService defines the behavior needed by AuthHandler.
type CredentialService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Credential, error)
}

// AuthHandler handles login requests.
type AuthHandler struct {
	credentialUC CredentialService
	jwtManager   *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(credentialUC CredentialService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		credentialUC: credentialUC,
		jwtManager:   jwtManager,
	}
}

// Login authenticates a username/password pair and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cred, err := h.credentialUC.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(cred)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:         token,
		Role:          string(cred.Role),
		AccountNumber: cred.AccountNumber,
	})
}
