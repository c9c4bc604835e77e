package calendly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"acmedental/models"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "test-token", NewIdentityCache())
}

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   models.ErrorKind
	}{
		{http.StatusUnauthorized, models.ErrKindAuthentication},
		{http.StatusNotFound, models.ErrKindNotFound},
		{http.StatusConflict, models.ErrKindConflict},
		{http.StatusTooManyRequests, models.ErrKindRateLimit},
		{http.StatusInternalServerError, models.ErrKindAPI},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))

		client := newTestClient(srv.URL)
		_, err := client.CurrentUser(context.Background())
		srv.Close()

		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		apiErr := AsAPIError(err)
		if apiErr.Kind != tc.kind {
			t.Errorf("status %d: kind = %s, want %s", tc.status, apiErr.Kind, tc.kind)
		}
	}
}

func TestUserURICaching(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(map[string]any{
			"resource": map[string]string{"uri": "https://api.calendly.com/users/abc"},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		uri, err := client.UserURI(ctx)
		if err != nil {
			t.Fatalf("UserURI call %d: %v", i, err)
		}
		if uri != "https://api.calendly.com/users/abc" {
			t.Fatalf("unexpected URI: %s", uri)
		}
	}

	if requests != 1 {
		t.Errorf("expected 1 provider request, got %d", requests)
	}
}

func TestEventTypeURICaching(t *testing.T) {
	requests := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests[r.URL.Path]++
		switch r.URL.Path {
		case "/users/me":
			json.NewEncoder(w).Encode(map[string]any{
				"resource": map[string]string{"uri": "user-uri"},
			})
		case "/event_types":
			json.NewEncoder(w).Encode(map[string]any{
				"collection": []map[string]any{
					{"uri": "checkup-uri", "name": "Dental Checkup", "active": true, "duration": 30},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		uri, err := client.EventTypeURI(ctx)
		if err != nil {
			t.Fatalf("EventTypeURI call %d: %v", i, err)
		}
		if uri != "checkup-uri" {
			t.Fatalf("unexpected event type URI: %s", uri)
		}
	}

	if requests["/event_types"] != 1 {
		t.Errorf("expected 1 event_types request, got %d", requests["/event_types"])
	}
}

func TestEventTypeURINoActiveTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/me":
			json.NewEncoder(w).Encode(map[string]any{"resource": map[string]string{"uri": "user-uri"}})
		default:
			json.NewEncoder(w).Encode(map[string]any{"collection": []any{}})
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.EventTypeURI(context.Background())
	if err == nil {
		t.Fatal("expected error for empty event type list")
	}
	if AsAPIError(err).Kind != models.ErrKindNotFound {
		t.Errorf("kind = %s, want %s", AsAPIError(err).Kind, models.ErrKindNotFound)
	}
}

func TestTimeoutMapsToTimeoutKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.http.Timeout = 20 * time.Millisecond

	_, err := client.CurrentUser(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if AsAPIError(err).Kind != models.ErrKindTimeout {
		t.Errorf("kind = %s, want %s", AsAPIError(err).Kind, models.ErrKindTimeout)
	}
}

func TestCancelledContextDoesNotReportTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CurrentUser(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if kind := AsAPIError(err).Kind; kind == models.ErrKindTimeout {
		t.Errorf("cancellation reported as timeout kind")
	} else if kind != models.ErrKindConnection {
		t.Errorf("kind = %s, want %s", kind, models.ErrKindConnection)
	}
}

func TestConnectionFailureMapsToConnectionKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening

	client := newTestClient(srv.URL)
	_, err := client.CurrentUser(context.Background())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if AsAPIError(err).Kind != models.ErrKindConnection {
		t.Errorf("kind = %s, want %s", AsAPIError(err).Kind, models.ErrKindConnection)
	}
}

func TestCreateInviteeSendsPayload(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/scheduling/invitees" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(map[string]any{
			"resource": map[string]string{"uri": "invitee-uri", "email": "jane@example.com", "name": "Jane Doe"},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	start := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	invitee, err := client.CreateInvitee(context.Background(), "checkup-uri", start, "jane@example.com", "Jane Doe")
	if err != nil {
		t.Fatalf("CreateInvitee: %v", err)
	}
	if invitee.URI != "invitee-uri" {
		t.Errorf("invitee URI = %s", invitee.URI)
	}

	if received["event_type_uri"] != "checkup-uri" {
		t.Errorf("payload event_type_uri = %v", received["event_type_uri"])
	}
	if received["start_time"] != "2030-06-01T10:00:00Z" {
		t.Errorf("payload start_time = %v", received["start_time"])
	}
}

func TestCancelEvent(t *testing.T) {
	var path string
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if err := client.CancelEvent(context.Background(), "evt-123", "Cancelled by patient"); err != nil {
		t.Fatalf("CancelEvent: %v", err)
	}
	if path != "/scheduled_events/evt-123/cancellation" {
		t.Errorf("path = %s", path)
	}
	if payload["reason"] != "Cancelled by patient" {
		t.Errorf("reason = %s", payload["reason"])
	}
}
