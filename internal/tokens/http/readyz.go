package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/store"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/strategy"
	"github.com/aussiebroadwan/tokensmith/pkg/httpx"
	"github.com/aussiebroadwan/tokensmith/pkg/tokensdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, the database connection and the token types the registry serves
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	tokensdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	tokensdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	registry *strategy.Registry,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &tokensdk.HealthChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		types := registryTypes(registry)
		if len(types) == len(domain.TokenTypes()) {
			checks.Registry = strings.Join(types, ",")
		} else {
			checks.Registry = "error: incomplete strategy registry"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, tokensdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

func registryTypes(registry *strategy.Registry) []string {
	if registry == nil {
		return nil
	}
	var names []string
	for _, t := range registry.Types() {
		names = append(names, t.String())
	}
	return names
}
