package http

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/service"
	"github.com/aussiebroadwan/tokensmith/pkg/httpx"
	"github.com/aussiebroadwan/tokensmith/pkg/tokensdk"
)

// TokensHandler serves the token endpoints.
type TokensHandler struct {
	TokenService *service.TokenService
}

// HandleGenerate handles POST /v1/tokens
//
//	@Summary		Issue Token
//	@Description	Issues a compact token under the crypto policy of the given client.
//	@Description	iat and exp are stamped by the service and replace any supplied values.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		tokensdk.GenerateTokenRequest	true	"client_id, claims, ttl_seconds"
//	@Success		200		{object}	tokensdk.GenerateTokenResponse	"token, token_type, kind, expires_in"
//	@Failure		400		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		422		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Failure		429		{object}	tokensdk.ErrorResponse			"error, error_description"
//	@Router			/v1/tokens [post].
func (h *TokensHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req tokensdk.GenerateTokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.ClientID) == "" {
		writeBadRequest(w, "client_id is required")
		return
	}
	if req.TTLSeconds < 0 {
		writeBadRequest(w, "ttl_seconds must not be negative")
		return
	}

	issued, err := h.TokenService.Generate(r.Context(), req.ClientID, req.Claims, ttlFromSeconds(req.TTLSeconds))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokensdk.GenerateTokenResponse{
		Token:     issued.Token,
		TokenType: issued.TokenType.String(),
		Kind:      issued.Kind.String(),
		ExpiresIn: int64(issued.ExpiresIn / time.Second),
	})
}

// HandlePayload handles POST /v1/tokens/payload
//
//	@Summary		Read Token
//	@Description	Validates a token against the policy of the given client and returns its claims.
//	@Description	Expired, tampered and mistyped tokens are rejected with distinct error codes.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		tokensdk.PayloadRequest		true	"client_id, token"
//	@Success		200		{object}	tokensdk.PayloadResponse	"claims"
//	@Failure		400		{object}	tokensdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	tokensdk.ErrorResponse		"invalid_token or token_expired"
//	@Failure		404		{object}	tokensdk.ErrorResponse		"error, error_description"
//	@Failure		422		{object}	tokensdk.ErrorResponse		"error, error_description"
//	@Router			/v1/tokens/payload [post].
func (h *TokensHandler) HandlePayload(w http.ResponseWriter, r *http.Request) {
	var req tokensdk.PayloadRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.ClientID) == "" {
		writeBadRequest(w, "client_id is required")
		return
	}

	res := h.TokenService.TryGetPayload(r.Context(), req.ClientID, req.Token)
	if !res.OK() {
		writeServiceError(w, r, res.Err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokensdk.PayloadResponse{Claims: res.Claims})
}

// HandleClassify handles POST /v1/tokens/classify
//
//	@Summary		Classify Token
//	@Description	Reports whether a string looks like a compact JWS, a compact JWE or neither.
//	@Description	Nothing is decrypted or verified. Enveloped tokens classify as none.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		tokensdk.ClassifyRequest	true	"token"
//	@Success		200		{object}	tokensdk.ClassifyResponse	"kind"
//	@Failure		400		{object}	tokensdk.ErrorResponse		"error, error_description"
//	@Router			/v1/tokens/classify [post].
func (h *TokensHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var req tokensdk.ClassifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "Invalid JSON in request body")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokensdk.ClassifyResponse{
		Kind: h.TokenService.Classify(req.Token).String(),
	})
}

// ttlFromSeconds saturates instead of overflowing so the service cap still
// applies to very large lifetimes.
func ttlFromSeconds(secs int64) time.Duration {
	if secs > int64(math.MaxInt64/time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs) * time.Second
}
