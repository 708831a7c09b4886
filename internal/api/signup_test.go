package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx/types"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/entities"
	"github.com/yethikrishna/y0-waitlist-builder/internal/services"
)

// Mock signup storage shared by the handler tests.
type mockStore struct {
	findByEmailFunc        func(ctx context.Context, email string) (*entities.WaitlistSignup, error)
	findByReferralCodeFunc func(ctx context.Context, code string) (*entities.WaitlistSignup, error)
	insertFunc             func(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error)
	countFunc              func(ctx context.Context) (int, error)
	listAllFunc            func(ctx context.Context) ([]entities.WaitlistSignup, error)
}

func (m *mockStore) FindByEmail(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockStore) FindByReferralCode(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
	return m.findByReferralCodeFunc(ctx, code)
}

func (m *mockStore) Insert(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
	return m.insertFunc(ctx, email, referredBy, metadata)
}

func (m *mockStore) Count(ctx context.Context) (int, error) {
	return m.countFunc(ctx)
}

func (m *mockStore) ListAll(ctx context.Context) ([]entities.WaitlistSignup, error) {
	return m.listAllFunc(ctx)
}

func newSignupStore() *mockStore {
	return &mockStore{
		findByEmailFunc: func(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
			return nil, nil
		},
		findByReferralCodeFunc: func(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
			return nil, nil
		},
		insertFunc: func(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
			return &entities.WaitlistSignup{
				Email:        email,
				ReferralCode: "aabbccddeeff",
				Position:     5,
			}, nil
		},
	}
}

func TestSignupHandler_Success(t *testing.T) {
	store := newSignupStore()
	handlers := NewHandlers(&Dependencies{
		Services: &Services{Signup: services.NewSignupService(store, nil, nil)},
	})

	body, _ := json.Marshal(dtos.SignupRequest{Email: "new@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.Signup()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result dtos.SignupResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("Body decode failed: %v", err)
	}
	if !result.Success || result.Position != 5 || result.ReferralCode != "aabbccddeeff" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestSignupHandler_ClientMetadataIsIgnored(t *testing.T) {
	var insertedMetadata types.JSONText
	store := newSignupStore()
	store.insertFunc = func(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
		insertedMetadata = metadata
		return &entities.WaitlistSignup{
			Email:        email,
			ReferralCode: "aabbccddeeff",
			Position:     5,
		}, nil
	}
	handlers := NewHandlers(&Dependencies{
		Services: &Services{Signup: services.NewSignupService(store, nil, nil)},
	})

	body := []byte(`{"email":"new@example.com","metadata":{"injected":"anything the client wants"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.Signup()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if string(insertedMetadata) != "{}" {
		t.Errorf("Client metadata must never reach storage; store received %q", string(insertedMetadata))
	}
}

func TestSignupHandler_InvalidEmailIs400(t *testing.T) {
	handlers := NewHandlers(&Dependencies{
		Services: &Services{Signup: services.NewSignupService(newSignupStore(), nil, nil)},
	})

	body, _ := json.Marshal(dtos.SignupRequest{Email: "not-an-email"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.Signup()(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	var result dtos.SignupResult
	_ = json.NewDecoder(rec.Body).Decode(&result)
	if result.Error != constants.MsgInvalidEmail {
		t.Errorf("Expected %q, got %q", constants.MsgInvalidEmail, result.Error)
	}
}

func TestSignupHandler_MalformedBodyIs400(t *testing.T) {
	handlers := NewHandlers(&Dependencies{
		Services: &Services{Signup: services.NewSignupService(newSignupStore(), nil, nil)},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist/signup", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handlers.Signup()(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestCountHandler(t *testing.T) {
	store := &mockStore{
		countFunc: func(ctx context.Context) (int, error) { return 77, nil },
	}
	handlers := NewHandlers(&Dependencies{
		Services: &Services{Stats: services.NewStatsService(store, nil, nil)},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waitlist/count", nil)
	rec := httptest.NewRecorder()

	handlers.Count()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp dtos.CountResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Count != 77 {
		t.Errorf("Expected count 77, got %d", resp.Count)
	}
}

func qrRequest(handlers *Handlers, code string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/api/v1/waitlist/referral/{code}/qr", handlers.ReferralQR())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waitlist/referral/"+code+"/qr", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReferralQRHandler(t *testing.T) {
	store := newSignupStore()
	store.findByReferralCodeFunc = func(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
		if code == "aabbccddeeff" {
			return &entities.WaitlistSignup{ReferralCode: code}, nil
		}
		return nil, nil
	}
	handlers := NewHandlers(&Dependencies{
		Signups:       store,
		PublicBaseURL: "https://waitlist.example.com/",
	})

	rec := qrRequest(handlers, "AABBCCDDEEFF")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("Expected PNG bytes in the body")
	}

	if rec := qrRequest(handlers, "000000000000"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown code, got %d", rec.Code)
	}
	if rec := qrRequest(handlers, "notacode"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed code, got %d", rec.Code)
	}
}
