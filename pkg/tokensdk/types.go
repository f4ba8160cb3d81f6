package tokensdk

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	// Error is a short machine readable code (e.g., "invalid_token")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Token Types
// ============================================================================

// GenerateTokenRequest asks for a token under a client's policy.
type GenerateTokenRequest struct {
	ClientID string         `json:"client_id" example:"01JAF3Q6Z8M2N4P6R8T0V2X4Y6"`
	Claims   map[string]any `json:"claims,omitempty"`

	// TTLSeconds is the token lifetime. Zero selects the service default;
	// longer lifetimes are capped by the service maximum.
	TTLSeconds int64 `json:"ttl_seconds,omitempty" example:"900"`
}

// GenerateTokenResponse carries an issued token.
type GenerateTokenResponse struct {
	Token string `json:"token"`

	// TokenType is the client's token type (JWS, JWE, ENCRYPTED_JWS, ENCRYPTED_JWE)
	TokenType string `json:"token_type" example:"JWE"`

	// Kind is the structural class of Token: "jws", "jwe" or "none"
	Kind string `json:"kind" example:"jwe"`

	// ExpiresIn is the effective lifetime in seconds
	ExpiresIn int64 `json:"expires_in" example:"900"`
}

// PayloadRequest asks the service to validate a token and return its claims.
type PayloadRequest struct {
	ClientID string `json:"client_id"`
	Token    string `json:"token"`
}

// PayloadResponse carries the claims of a valid token, iat and exp included.
type PayloadResponse struct {
	Claims map[string]any `json:"claims"`
}

// ClassifyRequest asks for the structural class of a token.
type ClassifyRequest struct {
	Token string `json:"token"`
}

// ClassifyResponse reports "jws", "jwe" or "none". Nothing is verified.
type ClassifyResponse struct {
	Kind string `json:"kind" example:"jws"`
}

// ============================================================================
// Client Types
// ============================================================================

// CreateClientRequest registers a client with its crypto policy.
// Encryption fields are ignored for JWS and ENCRYPTED_JWS.
type CreateClientRequest struct {
	Name      string `json:"name" example:"billing"`
	TokenType string `json:"token_type" example:"JWE"`

	SignatureAlgorithm string `json:"signature_algorithm" example:"HS256"`
	SignatureSecret    string `json:"signature_secret,omitempty"`

	EncryptionAlgorithm string `json:"encryption_algorithm,omitempty" example:"dir"`
	EncryptionMethod    string `json:"encryption_method,omitempty" example:"A256GCM"`
	EncryptionSecret    string `json:"encryption_secret,omitempty"`
}

// ClientResponse returns a client record together with any secrets the
// service generated for it. Generated secrets are only shown once.
type ClientResponse struct {
	Client ClientInfo `json:"client"`

	SignatureSecret  string `json:"signature_secret,omitempty"`
	EncryptionSecret string `json:"encryption_secret,omitempty"`
}

// ClientInfo describes a client without its secrets.
type ClientInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TokenType string `json:"token_type"`

	SignatureAlgorithm   string `json:"signature_algorithm"`
	SignatureFingerprint string `json:"signature_fingerprint"`

	EncryptionAlgorithm   string `json:"encryption_algorithm,omitempty"`
	EncryptionMethod      string `json:"encryption_method,omitempty"`
	EncryptionFingerprint string `json:"encryption_fingerprint,omitempty"`

	// CreatedAt and UpdatedAt are RFC3339 timestamps
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListClientsResponse contains all clients, newest first.
type ListClientsResponse struct {
	Clients []ClientInfo `json:"clients"`
}

// RotateSecretsRequest replaces a client's secrets. Empty fields are
// generated by the service.
type RotateSecretsRequest struct {
	SignatureSecret  string `json:"signature_secret,omitempty"`
	EncryptionSecret string `json:"encryption_secret,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (the latter with Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`

	// Registry lists the token types with a strategy, or an error
	Registry string `json:"registry"`
}
