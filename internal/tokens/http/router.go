package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/service"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/store"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/strategy"
	"github.com/aussiebroadwan/tokensmith/pkg/httpx"
	"github.com/aussiebroadwan/tokensmith/pkg/slogx"

	_ "github.com/aussiebroadwan/tokensmith/api/tokens" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	apiKeyHash   string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	registry      *strategy.Registry
	TokenService  *service.TokenService
	ClientService *service.ClientService

	// Limiters builds a shared rate limiter per route. Nil keeps limits in
	// process memory.
	Limiters httpx.LimiterFactory

	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

// NewRouter creates a router. An empty apiKeyHash leaves the /v1 routes
// open; callers decide whether that is acceptable.
func NewRouter(
	apiKeyHash, buildVersion string,
	st store.Store,
	registry *strategy.Registry,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		apiKeyHash:   apiKeyHash,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		registry:     registry,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	authn := r.authn()

	r.registerTokens(authn)
	r.registerClients(authn)
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tokensmith Token Service API
//	@version		0.1.0
//	@description	Issues and validates compact JOSE tokens (JWS and JWE) for registered clients.
//	@description
//	@description				Each client has its own token type, algorithms and secrets. ENCRYPTED_* token types are sealed once more with a process-wide key.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tokensmith
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Operator API key. Format: "Bearer {key}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn returns the API key check, built once so verified keys are shared
// across routes.
func (r *Router) authn() httpx.Middleware {
	if r.apiKeyHash == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	return httpx.APIKeyMiddleware(r.apiKeyHash)
}

func (r *Router) registerTokens(authn httpx.Middleware) {
	h := &TokensHandler{TokenService: r.TokenService}

	// Token endpoints carry the bulk of traffic - public limit per caller
	secured := func(pattern string, fn http.HandlerFunc) {
		r.Mux.Handle(pattern, httpx.Chain(fn,
			authn,
			r.rateLimit(pattern, httpx.PublicLimit, httpx.CallerIPKeyExtractor),
		))
	}

	secured("POST /v1/tokens", h.HandleGenerate)
	secured("POST /v1/tokens/payload", h.HandlePayload)
	secured("POST /v1/tokens/classify", h.HandleClassify)
}

func (r *Router) registerClients(authn httpx.Middleware) {
	h := &ClientsHandler{ClientService: r.ClientService}

	// Writes hand out secrets - strict rate limit
	write := func(pattern string, fn http.HandlerFunc) {
		r.Mux.Handle(pattern, httpx.Chain(fn, authn, r.rateLimit(pattern, httpx.StrictLimit, httpx.CallerIPKeyExtractor)))
	}
	read := func(pattern string, fn http.HandlerFunc) {
		r.Mux.Handle(pattern, httpx.Chain(fn, authn, r.rateLimit(pattern, httpx.ModerateLimit, httpx.CallerIPKeyExtractor)))
	}

	write("POST /v1/clients", h.HandleCreate)
	read("GET /v1/clients", h.HandleList)
	read("GET /v1/clients/{id}", h.HandleGet)
	write("DELETE /v1/clients/{id}", h.HandleDelete)
	write("PUT /v1/clients/{id}/secrets", h.HandleRotate)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.rateLimit("GET /livez", httpx.LenientLimit, httpx.IPKeyExtractor),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.registry),
			r.rateLimit("GET /readyz", httpx.LenientLimit, httpx.IPKeyExtractor),
		),
	)

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics",
			httpx.Chain(r.Metrics,
				r.rateLimit("GET /metrics", httpx.LenientLimit, httpx.IPKeyExtractor),
			),
		)
	}
}

// rateLimit returns a fresh limiter for one route.
func (r *Router) rateLimit(pattern string, config httpx.RateLimitConfig, key httpx.KeyExtractor) httpx.Middleware {
	if r.Limiters == nil {
		return httpx.RateLimitMiddleware(config, key)
	}
	return httpx.RateLimitWith(r.Limiters(pattern, config), config, key)
}
