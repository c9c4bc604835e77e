package calendly

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"acmedental/models"
	"acmedental/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production Calendly API endpoint.
const DefaultBaseURL = "https://api.calendly.com"

// requestTimeout is the fixed per-request timeout. There is no retry here:
// the client fails visibly and leaves retry policy to the caller.
const requestTimeout = 10 * time.Second

// Client is a thin wrapper over the Calendly REST API. Every call applies
// the fixed timeout and returns *APIError instead of transport failures.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	cache   *IdentityCache
	logger  *zap.Logger
}

// NewClient builds a client for the given API base and bearer token. The
// identity cache is injected so its lifetime is owned by the caller and a
// fresh cache can be supplied per test.
func NewClient(baseURL, token string, cache *IdentityCache) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
		// Calendly allows bursts but throttles sustained traffic; staying
		// under ~2 requests/second keeps us clear of 429s without a retry
		// policy.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 4),
		cache:   cache,
		logger:  utils.GetLogger(),
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait fails on any context error, not just deadlines.
		if errors.Is(err, context.Canceled) {
			return newAPIError(models.ErrKindConnection, "request cancelled before it was sent")
		}
		return newAPIError(models.ErrKindTimeout, "request timed out waiting for rate limiter")
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return newAPIError(models.ErrKindAPI, fmt.Sprintf("encode request body: %v", err))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return newAPIError(models.ErrKindAPI, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("calendly request", zap.String("method", method), zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return newAPIError(models.ErrKindTimeout, "request timed out - Calendly may be slow or unavailable")
		}
		return newAPIError(models.ErrKindConnection, "connection failed - check internet connection")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return newAPIError(models.ErrKindAPI, fmt.Sprintf("invalid JSON response: %v", err))
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return newAPIError(models.ErrKindAuthentication, "invalid or expired API token")
	case resp.StatusCode == http.StatusNotFound:
		return newAPIError(models.ErrKindNotFound, "resource not found")
	case resp.StatusCode == http.StatusConflict:
		return newAPIError(models.ErrKindConflict, "time slot is no longer available")
	case resp.StatusCode == http.StatusTooManyRequests:
		return newAPIError(models.ErrKindRateLimit, "rate limit exceeded")
	case resp.StatusCode >= 400:
		msg := "API error " + strconv.Itoa(resp.StatusCode)
		var errBody struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Message != "" {
			msg += ": " + errBody.Message
		}
		return newAPIError(models.ErrKindAPI, msg)
	}
	return nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// CurrentUser returns the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var result struct {
		Resource User `json:"resource"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result.Resource, nil
}

// UserURI returns the account URI, fetching it once and serving it from the
// identity cache afterwards.
func (c *Client) UserURI(ctx context.Context) (string, error) {
	if uri, ok := c.cache.Get(CacheKeyAccountURI); ok {
		return uri, nil
	}

	user, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user.URI == "" {
		return "", newAPIError(models.ErrKindAPI, "user URI not found in response")
	}

	c.cache.Set(CacheKeyAccountURI, user.URI)
	return user.URI, nil
}

// EventTypes lists the account's active event types.
func (c *Client) EventTypes(ctx context.Context) ([]EventType, error) {
	userURI, err := c.UserURI(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("user", userURI)
	params.Set("active", "true")

	var result struct {
		Collection []EventType `json:"collection"`
	}
	if err := c.do(ctx, http.MethodGet, "/event_types", params, nil, &result); err != nil {
		return nil, err
	}
	return result.Collection, nil
}

// EventTypeURI resolves the checkup event type, cached after first fetch.
// The clinic offers a single service, so the first active event type is it.
func (c *Client) EventTypeURI(ctx context.Context) (string, error) {
	if uri, ok := c.cache.Get(CacheKeyEventTypeURI); ok {
		return uri, nil
	}

	types, err := c.EventTypes(ctx)
	if err != nil {
		return "", err
	}
	if len(types) == 0 {
		return "", newAPIError(models.ErrKindNotFound, "no active event types configured")
	}

	c.cache.Set(CacheKeyEventTypeURI, types[0].URI)
	return types[0].URI, nil
}

// AvailableTimes lists open slots for an event type within [start, end].
// Never cached: slot availability must reflect the provider's live state.
func (c *Client) AvailableTimes(ctx context.Context, eventTypeURI string, start, end time.Time) ([]AvailableTime, error) {
	params := url.Values{}
	params.Set("event_type", eventTypeURI)
	params.Set("start_time", start.Format(time.RFC3339))
	params.Set("end_time", end.Format(time.RFC3339))

	var result struct {
		Collection []AvailableTime `json:"collection"`
	}
	if err := c.do(ctx, http.MethodGet, "/event_type_available_times", params, nil, &result); err != nil {
		return nil, err
	}
	return result.Collection, nil
}

// CreateInvitee books a slot for the given patient. This mutates provider
// state; the only undo is a compensating CancelEvent.
func (c *Client) CreateInvitee(ctx context.Context, eventTypeURI string, startTime time.Time, email, name string) (*Invitee, error) {
	payload := map[string]any{
		"event_type_uri": eventTypeURI,
		"start_time":     startTime.UTC().Format(time.RFC3339),
		"invitee": map[string]string{
			"email": email,
			"name":  name,
		},
	}

	var result struct {
		Resource Invitee `json:"resource"`
	}
	if err := c.do(ctx, http.MethodPost, "/scheduling/invitees", nil, payload, &result); err != nil {
		return nil, err
	}
	return &result.Resource, nil
}

// ScheduledEvents lists active bookings starting at or after minStart.
func (c *Client) ScheduledEvents(ctx context.Context, minStart time.Time) ([]ScheduledEvent, error) {
	userURI, err := c.UserURI(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("user", userURI)
	params.Set("status", "active")
	params.Set("count", "100")
	if !minStart.IsZero() {
		params.Set("min_start_time", minStart.Format(time.RFC3339))
	}

	var result struct {
		Collection []ScheduledEvent `json:"collection"`
	}
	if err := c.do(ctx, http.MethodGet, "/scheduled_events", params, nil, &result); err != nil {
		return nil, err
	}
	return result.Collection, nil
}

// EventInvitees lists the invitees on a scheduled event.
func (c *Client) EventInvitees(ctx context.Context, eventUUID string) ([]Invitee, error) {
	var result struct {
		Collection []Invitee `json:"collection"`
	}
	path := "/scheduled_events/" + eventUUID + "/invitees"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Collection, nil
}

// CancelEvent cancels a scheduled event with the given reason.
func (c *Client) CancelEvent(ctx context.Context, eventUUID, reason string) error {
	payload := map[string]string{"reason": reason}
	path := "/scheduled_events/" + eventUUID + "/cancellation"
	return c.do(ctx, http.MethodPost, path, nil, payload, nil)
}
