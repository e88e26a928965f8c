package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest"
	"github.com/commercekit/amazonpay-gateway/internal/onboarding"
)

// OnboardingHandlers serves the merchant key-exchange flow: a keypair is
// generated for the registration attempt, and the provider's encrypted
// credential payload is decrypted with the stored private key.
type OnboardingHandlers struct {
	privateKeyPEM func() ([]byte, error)
	logger        *slog.Logger
}

func NewOnboardingHandlers(privateKeyPEM func() ([]byte, error), logger *slog.Logger) *OnboardingHandlers {
	return &OnboardingHandlers{
		privateKeyPEM: privateKeyPEM,
		logger:        logger,
	}
}

func (h *OnboardingHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/onboarding/keys", h.GenerateKeys)
	mux.HandleFunc("POST /api/v1/onboarding/credentials", h.DecryptCredentials)
}

type keyPairResponse struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// GenerateKeys mints a fresh keypair for one registration attempt. The
// private key is returned once and never stored here; the operator is
// expected to place it at the configured key path.
func (h *OnboardingHandlers) GenerateKeys(w http.ResponseWriter, r *http.Request) {
	pair, err := onboarding.GenerateKeyPair()
	if err != nil {
		rest.WriteError(w, application.NewInternalError(err), h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, keyPairResponse{
		PublicKey:  pair.PublicKey,
		PrivateKey: string(pair.PrivateKeyPEM),
	})
}

// DecryptCredentials opens the encrypted credential envelope the provider
// sends back after registration.
func (h *OnboardingHandlers) DecryptCredentials(w http.ResponseWriter, r *http.Request) {
	var payload onboarding.EncryptedPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	keyPEM, err := h.privateKeyPEM()
	if err != nil {
		rest.WriteError(w, application.NewInternalError(err), h.logger)
		return
	}

	creds, err := onboarding.DecryptPayload(keyPEM, payload)
	if err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, creds)
}
