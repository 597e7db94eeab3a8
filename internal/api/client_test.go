package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"genvid/internal/api"
	"genvid/internal/config"
	"genvid/internal/logging"
)

func newClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.API.BaseURL = server.URL
	cfg.API.RatePerSecond = 1000
	cfg.API.RateBurst = 1000
	return api.New(&cfg, logging.NewNop())
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]any{"success": status < 300}
	if data != nil {
		payload["data"] = data
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func TestLoginDecodesSession(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "a@b.com" || body["password"] != "12345678" {
			t.Errorf("unexpected credentials: %v", body)
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"access_token":  "tok",
			"refresh_token": "ref",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"user":          map[string]any{"id": "u1", "email": "a@b.com"},
		})
	}))

	session, err := client.Login(context.Background(), "a@b.com", "12345678")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.AccessToken != "tok" || session.RefreshToken != "ref" {
		t.Fatalf("unexpected tokens: %+v", session)
	}
	if session.User == nil || session.User.ID != "u1" {
		t.Fatalf("unexpected user: %+v", session.User)
	}
}

func TestAuthenticatedEndpointWithoutTokenIsLocalError(t *testing.T) {
	requests := 0
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, _, err := client.Projects(context.Background(), 1, 20)
	if !errors.Is(err, api.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected no network round trip, saw %d", requests)
	}
}

func TestBearerAndCorrelationHeadersAttached(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		writeEnvelope(w, http.StatusOK, []any{})
	}))
	client.SetToken("secret")

	if _, _, err := client.Projects(context.Background(), 1, 20); err != nil {
		t.Fatalf("projects: %v", err)
	}
}

func TestEnvelopeFailureBecomesAPIError(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"success":false,"error":{"code":"INSUFFICIENT_CREDITS","message":"no credits left"}}`)
	}))
	client.SetToken("secret")

	_, err := client.Generate(context.Background(), "p1", api.GenerateRequest{AvatarID: "a1", Script: "a script here", Language: "en", Format: "9:16", VideoDuration: 5})
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != "INSUFFICIENT_CREDITS" {
		t.Fatalf("unexpected code: %q", apiErr.Code)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"error":{"code":"TOKEN_EXPIRED","message":"token expired"}}`)
	}))
	client.SetToken("stale")

	_, err := client.Profile(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestProjectsPaginationQueryAndMeta(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("unexpected page: %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("unexpected limit: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":"p1","status":"processing"}],"meta":{"page":2,"limit":10,"total":11,"total_pages":2}}`)
	}))
	client.SetToken("secret")

	projects, meta, err := client.Projects(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != "p1" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
	if meta == nil || meta.TotalPages != 2 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestUploadSendsMultipartAndReturnsURL(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "product.png" {
			t.Errorf("unexpected filename: %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "fake-image-bytes" {
			t.Errorf("unexpected content: %q", content)
		}
		writeEnvelope(w, http.StatusOK, map[string]string{"url": "https://cdn.example.com/product.png"})
	}))
	client.SetToken("secret")

	url, err := client.Upload(context.Background(), "/tmp/product.png", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cdn.example.com/product.png" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestCreateCheckoutReturnsSessionURL(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body api.CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.PlanID != "pro_monthly" {
			t.Errorf("unexpected plan: %q", body.PlanID)
		}
		writeEnvelope(w, http.StatusOK, map[string]string{"session_url": "https://pay.example.com/s/abc"})
	}))
	client.SetToken("secret")

	url, err := client.CreateCheckout(context.Background(), api.CheckoutRequest{
		PlanID:     "pro_monthly",
		SuccessURL: "http://127.0.0.1:1/payment?payment=success",
		CancelURL:  "http://127.0.0.1:1/payment?payment=canceled",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if url != "https://pay.example.com/s/abc" {
		t.Fatalf("unexpected session url: %q", url)
	}
}

func TestDeleteProjectEscapesID(t *testing.T) {
	var gotPath string
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeEnvelope(w, http.StatusOK, nil)
	}))
	client.SetToken("secret")

	if err := client.DeleteProject(context.Background(), "p/1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if want := fmt.Sprintf("/api/projects/%s", "p%2F1"); gotPath != want {
		t.Fatalf("unexpected path: %q want %q", gotPath, want)
	}
}
