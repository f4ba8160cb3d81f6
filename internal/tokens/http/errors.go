package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/service"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/httpx"
	"github.com/aussiebroadwan/tokensmith/pkg/slogx"
	"github.com/aussiebroadwan/tokensmith/pkg/tokensdk"
)

// writeServiceError maps a service or engine error onto a status and an
// error code. Token failures get a fixed description so replies cannot be
// used to probe which layer rejected a token.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrClientNotFound):
		httpx.WriteError(w, http.StatusNotFound, tokensdk.ErrorCodeNotFound, "client not found")
	case errors.Is(err, service.ErrClientExists):
		httpx.WriteError(w, http.StatusConflict, tokensdk.ErrorCodeConflict, "client name already in use")
	case errors.Is(err, errx.ErrInvalidArgument):
		httpx.WriteError(w, http.StatusBadRequest, tokensdk.ErrorCodeInvalidRequest, err.Error())
	case errors.Is(err, errx.ErrTokenExpired):
		httpx.WriteError(w, http.StatusUnauthorized, tokensdk.ErrorCodeTokenExpired, "token has expired")
	case errors.Is(err, errx.ErrTokenInvalid):
		httpx.WriteError(w, http.StatusUnauthorized, tokensdk.ErrorCodeInvalidToken, "token is invalid")
	case errors.Is(err, errx.ErrCryptoFailed):
		httpx.WriteError(w, http.StatusUnprocessableEntity, tokensdk.ErrorCodeCryptoFailure, "key material cannot be used for this operation")
	default:
		log.Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, tokensdk.ErrorCodeServerError, "internal server error")
	}
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, tokensdk.ErrorCodeInvalidRequest, desc)
}
