package tokensdk

import (
	"context"
	"net/http"
)

// GenerateToken issues a token under the policy of req.ClientID.
func (c *Client) GenerateToken(ctx context.Context, req GenerateTokenRequest) (*GenerateTokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/tokens", req)
	if err != nil {
		return nil, err
	}

	var out GenerateTokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayload validates token against the policy of clientID and returns its
// claims.
func (c *Client) GetPayload(ctx context.Context, clientID, token string) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/tokens/payload", PayloadRequest{
		ClientID: clientID,
		Token:    token,
	})
	if err != nil {
		return nil, err
	}

	var out PayloadResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Claims, nil
}

// Classify returns "jws", "jwe" or "none" for token.
func (c *Client) Classify(ctx context.Context, token string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/tokens/classify", ClassifyRequest{Token: token})
	if err != nil {
		return "", err
	}

	var out ClassifyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.Kind, nil
}
