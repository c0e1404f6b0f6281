package dwolla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client talks to the Dwolla v2 API. Resources are identified by the URLs
// Dwolla returns in Location headers; callers persist and pass those URLs.
type Client struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewClient(key, secret, env string) (*Client, error) {
	var baseURL string
	switch env {
	case "sandbox":
		baseURL = "https://api-sandbox.dwolla.com"
	case "production":
		baseURL = "https://api.dwolla.com"
	default:
		return nil, fmt.Errorf("invalid Dwolla environment: %s", env)
	}
	return &Client{
		baseURL: baseURL,
		key:     key,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// APIError is a structured error from the Dwolla API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dwolla api error (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

type CustomerParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

// CreateCustomer registers a personal verified customer and returns its URL.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	if params.Type == "" {
		params.Type = "personal"
	}
	return c.postForLocation(ctx, c.baseURL+"/customers", params)
}

// DeactivateCustomer is the reverse operation for CreateCustomer, used when a
// later sign-up step fails.
func (c *Client) DeactivateCustomer(ctx context.Context, customerURL string) error {
	body := map[string]string{"status": "deactivated"}
	_, err := c.do(ctx, http.MethodPost, customerURL, body)
	return err
}

// CreateFundingSource attaches an aggregator-linked bank account to a
// customer via a processor token and returns the funding source URL.
func (c *Client) CreateFundingSource(ctx context.Context, customerURL, processorToken, name string) (string, error) {
	body := map[string]string{
		"plaidToken": processorToken,
		"name":       name,
	}
	return c.postForLocation(ctx, customerURL+"/funding-sources", body)
}

// RemoveFundingSource is the reverse operation for CreateFundingSource.
func (c *Client) RemoveFundingSource(ctx context.Context, fundingSourceURL string) error {
	body := map[string]bool{"removed": true}
	_, err := c.do(ctx, http.MethodPost, fundingSourceURL, body)
	return err
}

type transferRequest struct {
	Links  map[string]halLink `json:"_links"`
	Amount transferAmount     `json:"amount"`
}

type halLink struct {
	Href string `json:"href"`
}

type transferAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// CreateTransfer moves funds between two funding sources. Amount is a decimal
// string, e.g. "25.00".
func (c *Client) CreateTransfer(ctx context.Context, sourceURL, destinationURL, amount string) (string, error) {
	body := transferRequest{
		Links: map[string]halLink{
			"source":      {Href: sourceURL},
			"destination": {Href: destinationURL},
		},
		Amount: transferAmount{Currency: "USD", Value: amount},
	}
	return c.postForLocation(ctx, c.baseURL+"/transfers", body)
}

// CustomerIDFromURL extracts the customer id from a customer resource URL.
func CustomerIDFromURL(customerURL string) string {
	trimmed := strings.TrimRight(customerURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func (c *Client) postForLocation(ctx context.Context, url string, body interface{}) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("dwolla response missing Location header (%s)", url)
	}
	return location, nil
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Content-Type", "application/vnd.dwolla.v1.hal+json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request to Dwolla: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}

	io.Copy(io.Discard, resp.Body)
	return resp, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken returns a cached client-credentials token, refreshing it a
// minute before expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp.Add(-time.Minute)) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request Dwolla token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("dwolla token request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	c.token = tr.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.token, nil
}
