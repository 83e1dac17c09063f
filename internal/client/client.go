// Package client is the REST adapter the eligibility tracker drives.
// It speaks the Evently API contract: join-status, register, unregister
// and payment-check.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wildanre/Evently-sub001/internal/eligibility"
	"github.com/wildanre/Evently-sub001/internal/models"
)

// TokenSource supplies the bearer token attached to every request.
// Injecting it keeps credential storage out of this package.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource holding a fixed token
type StaticToken string

func (s StaticToken) Token() (string, error) { return string(s), nil }

// Client talks to the Evently API over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a client for the given API base URL
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

var _ eligibility.Client = (*Client)(nil)

type joinStatusResponse struct {
	IsJoined bool   `json:"isJoined"`
	Status   string `json:"status,omitempty"`
}

// JoinStatus fetches the registration state for the event. A malformed
// body or missing status field degrades to the fail-safe default rather
// than a positive state.
func (c *Client) JoinStatus(ctx context.Context, eventID string) (models.RegistrationState, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%s/join-status", eventID), nil)
	if err != nil {
		return models.RegistrationNotJoined, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return models.RegistrationNotJoined, err
	}

	var body joinStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("[CLIENT] malformed join-status body for event %s: %v", eventID, err)
		return models.RegistrationNotJoined, fmt.Errorf("%w: malformed join-status response", eligibility.ErrServer)
	}

	if body.Status != "" {
		return models.ParseRegistrationState(body.Status), nil
	}
	if body.IsJoined {
		return models.RegistrationJoined, nil
	}
	return models.RegistrationNotJoined, nil
}

type registerResponse struct {
	RequireApproval bool   `json:"requireApproval"`
	Error           string `json:"error,omitempty"`
}

// Register joins the event and reports whether approval is pending.
// Conflict bodies are matched by substring, mirroring the backend's
// error messages.
func (c *Client) Register(ctx context.Context, eventID string) (bool, error) {
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/events/%s/register", eventID), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var body registerResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		if decodeErr != nil {
			// Created but unreadable body: registration happened, the
			// approval flag is unknown. Assume no approval needed.
			log.Printf("[CLIENT] malformed register body for event %s: %v", eventID, decodeErr)
			return false, nil
		}
		return body.RequireApproval, nil
	case http.StatusBadRequest, http.StatusConflict:
		switch {
		case strings.Contains(body.Error, "already registered"):
			return false, eligibility.ErrAlreadyRegistered
		case strings.Contains(body.Error, "Event is full"):
			return false, eligibility.ErrEventFull
		default:
			return false, fmt.Errorf("%w: %s", eligibility.ErrServer, body.Error)
		}
	case http.StatusUnauthorized:
		return false, eligibility.ErrAuthRequired
	case http.StatusNotFound:
		return false, eligibility.ErrNotFound
	default:
		return false, fmt.Errorf("%w: unexpected status %d", eligibility.ErrServer, resp.StatusCode)
	}
}

// Unregister leaves or cancels a registration
func (c *Client) Unregister(ctx context.Context, eventID string) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/events/%s/register", eventID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp)
}

type paymentCheckResponse struct {
	Data struct {
		HasPaid bool `json:"hasPaid"`
	} `json:"data"`
}

// CheckPayment reports whether a successful payment is recorded for the
// event/user pair
func (c *Client) CheckPayment(ctx context.Context, eventID, email string) (bool, error) {
	path := fmt.Sprintf("/payments/check/%s?email=%s", eventID, url.QueryEscape(email))
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return false, err
	}

	var body paymentCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Never assume a payment happened on a malformed response.
		return false, fmt.Errorf("%w: malformed payment-check response", eligibility.ErrServer)
	}
	return body.Data.HasPaid, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		if err := json.NewEncoder(reqBody).Encode(payload); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", eligibility.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: no token available", eligibility.ErrAuthRequired)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", eligibility.ErrNetwork, err)
	}
	return resp, nil
}

// checkStatus maps non-2xx responses onto the workflow error taxonomy
func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return eligibility.ErrAuthRequired
	case resp.StatusCode == http.StatusNotFound:
		return eligibility.ErrNotFound
	default:
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return fmt.Errorf("%w: %s", eligibility.ErrServer, body.Error)
		}
		return fmt.Errorf("%w: status %d", eligibility.ErrServer, resp.StatusCode)
	}
}
