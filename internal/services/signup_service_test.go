package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx/types"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/db/repositories"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/entities"
)

// Mock SignupStore
type mockSignupStore struct {
	findByEmailFunc        func(ctx context.Context, email string) (*entities.WaitlistSignup, error)
	findByReferralCodeFunc func(ctx context.Context, code string) (*entities.WaitlistSignup, error)
	insertFunc             func(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error)
}

func (m *mockSignupStore) FindByEmail(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockSignupStore) FindByReferralCode(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
	return m.findByReferralCodeFunc(ctx, code)
}

func (m *mockSignupStore) Insert(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
	return m.insertFunc(ctx, email, referredBy, metadata)
}

// Mock dispatcher capturing dispatched notifications
type mockDispatcher struct {
	dispatched []dtos.NotifyRequest
}

func (m *mockDispatcher) Dispatch(req dtos.NotifyRequest) {
	m.dispatched = append(m.dispatched, req)
}

func TestSignupService_NewSignup(t *testing.T) {
	var insertedEmail string
	var insertedReferredBy *string
	var insertedMetadata types.JSONText

	store := &mockSignupStore{
		findByEmailFunc: func(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
			return nil, nil
		},
		findByReferralCodeFunc: func(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
			return nil, nil
		},
		insertFunc: func(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
			insertedEmail = email
			insertedReferredBy = referredBy
			insertedMetadata = metadata
			return &entities.WaitlistSignup{
				ID:           "id-1",
				Email:        email,
				ReferralCode: "aabbccddeeff",
				Position:     42,
			}, nil
		},
	}
	dispatcher := &mockDispatcher{}
	svc := NewSignupService(store, dispatcher, nil)

	result := svc.Signup(context.Background(), dtos.SignupRequest{Email: "  New@Example.COM "})

	if !result.Success {
		t.Fatalf("Expected success, got error %q", result.Error)
	}
	if result.AlreadyExists {
		t.Error("Expected alreadyExists to be false for a new email")
	}
	if insertedEmail != "new@example.com" {
		t.Errorf("Expected normalized email, got %q", insertedEmail)
	}
	if insertedReferredBy != nil {
		t.Errorf("Expected nil referredBy, got %v", *insertedReferredBy)
	}
	if string(insertedMetadata) != "{}" {
		t.Errorf("Expected empty metadata object, got %q", string(insertedMetadata))
	}
	if result.Position != 42 || result.ReferralCode != "aabbccddeeff" {
		t.Errorf("Unexpected result: %+v", result)
	}
	if result.ReferralCount != 0 || result.SpotsGained != 0 {
		t.Errorf("New signup must start with zero referrals: %+v", result)
	}

	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("Expected one dispatched notification, got %d", len(dispatcher.dispatched))
	}
	notify := dispatcher.dispatched[0]
	if notify.Email != "new@example.com" || notify.Position != 42 {
		t.Errorf("Unexpected notification payload: %+v", notify)
	}
}

func TestSignupService_AlreadyExistsIsIdempotent(t *testing.T) {
	referred := "001122334455"
	store := &mockSignupStore{
		findByEmailFunc: func(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
			return &entities.WaitlistSignup{
				Email:         email,
				ReferralCode:  "aabbccddeeff",
				ReferredBy:    &referred,
				ReferralCount: 3,
				Position:      7,
			}, nil
		},
	}
	dispatcher := &mockDispatcher{}
	svc := NewSignupService(store, dispatcher, nil)

	for i := 0; i < 2; i++ {
		result := svc.Signup(context.Background(), dtos.SignupRequest{Email: "dupe@example.com"})

		if !result.Success {
			t.Fatalf("Expected success, got error %q", result.Error)
		}
		if !result.AlreadyExists {
			t.Fatal("Expected alreadyExists to be true")
		}
		if result.Position != 7 || result.ReferralCode != "aabbccddeeff" {
			t.Errorf("Expected stable position and code, got %+v", result)
		}
		if result.SpotsGained != 15 {
			t.Errorf("Expected spotsGained 15 (3 referrals x 5), got %d", result.SpotsGained)
		}
		if result.Error != constants.MsgAlreadyOnWaitlist {
			t.Errorf("Expected advisory message, got %q", result.Error)
		}
	}

	if len(dispatcher.dispatched) != 0 {
		t.Error("Duplicate signup must not notify")
	}
}

func TestSignupService_InvalidEmail(t *testing.T) {
	svc := NewSignupService(&mockSignupStore{}, nil, nil)

	result := svc.Signup(context.Background(), dtos.SignupRequest{Email: "not-an-email"})

	if result.Success {
		t.Fatal("Expected failure")
	}
	if result.Error != constants.MsgInvalidEmail {
		t.Errorf("Expected %q, got %q", constants.MsgInvalidEmail, result.Error)
	}
}

func TestSignupService_InvalidReferralCodeFormat(t *testing.T) {
	svc := NewSignupService(&mockSignupStore{}, nil, nil)

	result := svc.Signup(context.Background(), dtos.SignupRequest{
		Email:      "ok@example.com",
		ReferredBy: "tooshort",
	})

	if result.Success {
		t.Fatal("Expected failure")
	}
	if result.Error != constants.MsgInvalidReferralCode {
		t.Errorf("Expected %q, got %q", constants.MsgInvalidReferralCode, result.Error)
	}
}

func TestSignupService_DanglingReferralIsDropped(t *testing.T) {
	var insertedReferredBy *string

	store := &mockSignupStore{
		findByEmailFunc: func(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
			return nil, nil
		},
		findByReferralCodeFunc: func(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
			return nil, nil // unknown code
		},
		insertFunc: func(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
			insertedReferredBy = referredBy
			return &entities.WaitlistSignup{Email: email, ReferralCode: "aabbccddeeff", Position: 1}, nil
		},
	}
	svc := NewSignupService(store, nil, nil)

	result := svc.Signup(context.Background(), dtos.SignupRequest{
		Email:      "ok@example.com",
		ReferredBy: "deadbeef0000",
	})

	if !result.Success {
		t.Fatalf("Dangling referral must not fail the signup: %q", result.Error)
	}
	if insertedReferredBy != nil {
		t.Errorf("Expected referral dropped to nil, got %v", *insertedReferredBy)
	}
}

func TestSignupService_ResolvedReferralIsStored(t *testing.T) {
	var insertedReferredBy *string

	store := &mockSignupStore{
		findByEmailFunc: func(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
			return nil, nil
		},
		findByReferralCodeFunc: func(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
			return &entities.WaitlistSignup{Email: "referrer@example.com", ReferralCode: code}, nil
		},
		insertFunc: func(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
			insertedReferredBy = referredBy
			return &entities.WaitlistSignup{Email: email, ReferralCode: "aabbccddeeff", Position: 2}, nil
		},
	}
	dispatcher := &mockDispatcher{}
	svc := NewSignupService(store, dispatcher, nil)

	// Uppercase input resolves case-insensitively
	result := svc.Signup(context.Background(), dtos.SignupRequest{
		Email:      "ok@example.com",
		ReferredBy: "DEADBEEF0001",
	})

	if !result.Success {
		t.Fatalf("Expected success, got %q", result.Error)
	}
	if insertedReferredBy == nil || *insertedReferredBy != "deadbeef0001" {
		t.Errorf("Expected resolved referral deadbeef0001, got %v", insertedReferredBy)
	}
	if len(dispatcher.dispatched) != 1 || dispatcher.dispatched[0].ReferredBy != "deadbeef0001" {
		t.Errorf("Expected notification to carry the referrer code: %+v", dispatcher.dispatched)
	}
}

func TestSignupService_InsertRaceReturnsExisting(t *testing.T) {
	calls := 0
	store := &mockSignupStore{
		findByEmailFunc: func(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
			calls++
			if calls == 1 {
				// First check: not there yet
				return nil, nil
			}
			// Re-read after losing the insert race
			return &entities.WaitlistSignup{
				Email:         email,
				ReferralCode:  "aabbccddeeff",
				ReferralCount: 0,
				Position:      9,
			}, nil
		},
		findByReferralCodeFunc: func(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
			return nil, nil
		},
		insertFunc: func(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
			return nil, repositories.ErrEmailExists
		},
	}
	svc := NewSignupService(store, nil, nil)

	result := svc.Signup(context.Background(), dtos.SignupRequest{Email: "race@example.com"})

	if !result.Success || !result.AlreadyExists {
		t.Fatalf("Expected already-exists response after losing the race, got %+v", result)
	}
	if result.Position != 9 {
		t.Errorf("Expected position 9, got %d", result.Position)
	}
}

func TestSignupService_StorageFailureIsGeneric(t *testing.T) {
	store := &mockSignupStore{
		findByEmailFunc: func(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
			return nil, errors.New("pq: connection refused to 10.0.0.3")
		},
	}
	svc := NewSignupService(store, nil, nil)

	result := svc.Signup(context.Background(), dtos.SignupRequest{Email: "ok@example.com"})

	if result.Success {
		t.Fatal("Expected failure")
	}
	if result.Error != constants.MsgProcessingFailed {
		t.Errorf("Expected generic message, got %q", result.Error)
	}
}
