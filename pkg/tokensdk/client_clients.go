package tokensdk

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================================
// Client Operations
// ============================================================================

// CreateClient registers a client. Secrets generated by the service are in
// the response and nowhere else.
func (c *Client) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/clients", req)
	if err != nil {
		return nil, err
	}

	var out ClientResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClients returns all clients, newest first.
func (c *Client) ListClients(ctx context.Context) (*ListClientsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/clients", nil)
	if err != nil {
		return nil, err
	}

	var out ListClientsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClient returns one client.
func (c *Client) GetClient(ctx context.Context, clientID string) (*ClientInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/clients/"+url.PathEscape(clientID), nil)
	if err != nil {
		return nil, err
	}

	var out ClientInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClient removes a client. Its tokens can no longer be read.
func (c *Client) DeleteClient(ctx context.Context, clientID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/clients/"+url.PathEscape(clientID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// RotateSecrets replaces a client's secrets and returns any that were
// generated.
func (c *Client) RotateSecrets(ctx context.Context, clientID string, req RotateSecretsRequest) (*ClientResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/v1/clients/"+url.PathEscape(clientID)+"/secrets", req)
	if err != nil {
		return nil, err
	}

	var out ClientResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
