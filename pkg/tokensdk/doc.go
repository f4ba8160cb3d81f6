/*
Package tokensdk provides a client SDK for the tokensmith token service.

# Overview

The service issues and reads compact JOSE tokens on behalf of registered
clients. Each client carries its own crypto policy: a token type, a
signature algorithm and, for nested types, a key management algorithm and a
content encryption method. Every /v1 endpoint requires the operator API key.

	c := tokensdk.NewClient("https://tokens.example.com", apiKey)

	// Register a client; secrets left empty are generated and returned once
	created, err := c.CreateClient(ctx, tokensdk.CreateClientRequest{
		Name:                "billing",
		TokenType:           "JWE",
		SignatureAlgorithm:  "HS256",
		EncryptionAlgorithm: "dir",
		EncryptionMethod:    "A256GCM",
	})

	// Issue and read back a token
	tok, err := c.GenerateToken(ctx, tokensdk.GenerateTokenRequest{
		ClientID:   created.Client.ID,
		Claims:     map[string]any{"sub": "alice"},
		TTLSeconds: 300,
	})
	claims, err := c.GetPayload(ctx, created.Client.ID, tok.Token)

# Secrets

Secrets travel as strings. Symmetric secrets are used byte for byte; RSA
and EC material is PEM. The service never returns a stored secret, only the
ones it generated, and only in the response that created them.

# Error Handling

Non-2xx responses are returned as *APIError. The predefined errors match by
code, so callers can use errors.Is:

	_, err := c.GetPayload(ctx, clientID, token)
	switch {
	case errors.Is(err, tokensdk.ErrTokenExpired):
		// ask for a new token
	case errors.Is(err, tokensdk.ErrInvalidToken):
		// tampered, wrong type or wrong client
	}

# Thread Safety

A Client holds no mutable state and is safe for concurrent use.
*/
package tokensdk
