package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/service"
	"github.com/aussiebroadwan/tokensmith/pkg/httpx"
	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
	"github.com/aussiebroadwan/tokensmith/pkg/tokensdk"
)

// ClientsHandler handles all client management endpoints.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleCreate handles POST /v1/clients
//
//	@Summary		Create Client
//	@Description	Registers a client with its token type and algorithms.
//	@Description	Secrets left empty are generated and returned once. The policy is exercised before it is stored.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		tokensdk.CreateClientRequest	true	"Client creation request"
//	@Success		201		{object}	tokensdk.ClientResponse			"client and generated secrets"
//	@Failure		400		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		422		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Router			/v1/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req tokensdk.CreateClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body")
		return
	}

	cfg, err := parsePolicy(req)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	client, generated, err := h.ClientService.CreateClient(r.Context(), req.Name, cfg)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, clientResponse(client, generated))
}

// HandleList handles GET /v1/clients
//
//	@Summary		List Clients
//	@Description	Returns all clients, newest first. Secrets are never included.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	tokensdk.ListClientsResponse	"List of clients"
//	@Failure		401	{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		500	{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.ClientService.ListClients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := tokensdk.ListClientsResponse{Clients: make([]tokensdk.ClientInfo, len(clients))}
	for i, c := range clients {
		out.Clients[i] = clientInfo(c)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/clients/{id}
//
//	@Summary		Get Client
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"Client ID"
//	@Success		200	{object}	tokensdk.ClientInfo		"client"
//	@Failure		401	{object}	tokensdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	tokensdk.ErrorResponse	"error, error_description"
//	@Router			/v1/clients/{id} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	client, err := h.ClientService.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clientInfo(client))
}

// HandleDelete handles DELETE /v1/clients/{id}
//
//	@Summary		Delete Client
//	@Description	Removes a client. Tokens it issued can no longer be read.
//	@Tags			Clients
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Client ID"
//	@Success		204	"No Content"
//	@Failure		401	{object}	tokensdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	tokensdk.ErrorResponse	"error, error_description"
//	@Router			/v1/clients/{id} [delete].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ClientService.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRotate handles PUT /v1/clients/{id}/secrets
//
//	@Summary		Replace Client Secrets
//	@Description	Replaces the secrets of a client, keeping its algorithms. Empty fields are generated.
//	@Description	Tokens issued under the old secrets stop verifying.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Client ID"
//	@Param			request	body		tokensdk.RotateSecretsRequest	true	"new secrets"
//	@Success		200		{object}	tokensdk.ClientResponse			"client and generated secrets"
//	@Failure		400		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		422		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Router			/v1/clients/{id}/secrets [put].
func (h *ClientsHandler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	var req tokensdk.RotateSecretsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body")
		return
	}

	client, generated, err := h.ClientService.RotateSecrets(r.Context(), r.PathValue("id"),
		[]byte(req.SignatureSecret), []byte(req.EncryptionSecret))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientResponse(client, generated))
}

// parsePolicy maps the wire names of a create request onto a config.
// Missing algorithms are left at zero for Validate to report.
func parsePolicy(req tokensdk.CreateClientRequest) (domain.ClientCryptoConfig, error) {
	var cfg domain.ClientCryptoConfig

	if err := cfg.TokenType.UnmarshalText([]byte(req.TokenType)); err != nil {
		return cfg, fmt.Errorf("token_type: %w", err)
	}
	if err := cfg.SignatureAlgorithm.UnmarshalText([]byte(req.SignatureAlgorithm)); err != nil {
		return cfg, fmt.Errorf("signature_algorithm: %w", err)
	}
	if cfg.TokenType.Nested() {
		if err := cfg.EncryptionAlgorithm.UnmarshalText([]byte(req.EncryptionAlgorithm)); err != nil {
			return cfg, fmt.Errorf("encryption_algorithm: %w", err)
		}
		if err := cfg.EncryptionMethod.UnmarshalText([]byte(req.EncryptionMethod)); err != nil {
			return cfg, fmt.Errorf("encryption_method: %w", err)
		}
	}

	cfg.SignatureSecret = []byte(req.SignatureSecret)
	cfg.EncryptionSecret = []byte(req.EncryptionSecret)
	return cfg, nil
}

func clientResponse(c domain.Client, generated service.GeneratedSecrets) tokensdk.ClientResponse {
	return tokensdk.ClientResponse{
		Client:           clientInfo(c),
		SignatureSecret:  string(generated.Signature),
		EncryptionSecret: string(generated.Encryption),
	}
}

func clientInfo(c domain.Client) tokensdk.ClientInfo {
	return tokensdk.ClientInfo{
		ID:                    c.ID,
		Name:                  c.Name,
		TokenType:             c.TokenType.String(),
		SignatureAlgorithm:    algName(c.SignatureAlgorithm),
		SignatureFingerprint:  c.Secrets.SignatureFingerprint,
		EncryptionAlgorithm:   encAlgName(c.EncryptionAlgorithm),
		EncryptionMethod:      encName(c.EncryptionMethod),
		EncryptionFingerprint: c.Secrets.EncryptionFingerprint,
		CreatedAt:             c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             c.UpdatedAt.Format(time.RFC3339),
	}
}

func algName(a jwtx.SignatureAlgorithm) string {
	if !a.Valid() {
		return ""
	}
	return a.String()
}

func encAlgName(a jwex.Algorithm) string {
	if !a.Valid() {
		return ""
	}
	return a.String()
}

func encName(m jwex.Method) string {
	if !m.Valid() {
		return ""
	}
	return m.String()
}
