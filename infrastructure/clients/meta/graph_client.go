package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"

	"resty.dev/v3"
)

const DefaultGraphEndpoint = "https://graph.facebook.com/v18.0"

// GraphClient resolves the account behind an Instagram access token via the Graph API.
type GraphClient struct {
	client *resty.Client
}

type graphError struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewGraphClient(endpoint string, timeout time.Duration) *GraphClient {
	if endpoint == "" {
		endpoint = DefaultGraphEndpoint
	}
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout)
	return &GraphClient{client: client}
}

var _ repository.IAccountVerifier = (*GraphClient)(nil)

// VerifyAccount calls /me. A provider error payload is returned with its message verbatim.
func (g *GraphClient) VerifyAccount(ctx context.Context, accessToken string) (*model.ProviderIdentity, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fields":       "id,name",
			"access_token": accessToken,
		}).
		Get("/me")
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}

	body := []byte(resp.String())
	var gerr graphError
	if json.Unmarshal(body, &gerr) == nil && gerr.Error != nil && gerr.Error.Message != "" {
		return nil, errors.New(gerr.Error.Message)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("graph returned status %d", resp.StatusCode())
	}

	var identity model.ProviderIdentity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, fmt.Errorf("malformed identity payload: %w", err)
	}
	if identity.ID == "" || identity.Name == "" {
		return nil, errors.New("malformed identity payload: missing id or name")
	}
	return &identity, nil
}

func (g *GraphClient) Close() error {
	return g.client.Close()
}
