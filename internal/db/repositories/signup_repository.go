package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/entities"
)

// ErrEmailExists is returned when an insert loses the race against another
// signup for the same email. Callers translate it into the idempotent
// already-exists response.
var ErrEmailExists = errors.New("email already on waitlist")

const pqUniqueViolation = "23505"

type SignupRepository struct {
	db *sqlx.DB
}

func NewSignupRepository(db *sqlx.DB) *SignupRepository {
	return &SignupRepository{db}
}

// FindByEmail returns the signup for a normalized email, or nil when the
// email has not been seen before.
func (r *SignupRepository) FindByEmail(ctx context.Context, email string) (*entities.WaitlistSignup, error) {
	var signup entities.WaitlistSignup

	err := r.db.QueryRowxContext(ctx, constants.GetSignupByEmail, email).StructScan(&signup)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find signup by email: %w", err)
	}

	return &signup, nil
}

// FindByReferralCode resolves a referral code to its owner, or nil when no
// signup holds that code.
func (r *SignupRepository) FindByReferralCode(ctx context.Context, code string) (*entities.WaitlistSignup, error) {
	var signup entities.WaitlistSignup

	err := r.db.QueryRowxContext(ctx, constants.GetSignupByReferralCode, code).StructScan(&signup)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find signup by referral code: %w", err)
	}

	return &signup, nil
}

// Insert creates a new signup and performs the insert-time bookkeeping in a
// single transaction: a fresh 12-hex referral code, the next position, and
// the referrer's counter when referredBy resolved. The email uniqueness
// constraint settles concurrent signups for the same address; the loser
// observes ErrEmailExists.
func (r *SignupRepository) Insert(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
	if len(metadata) == 0 {
		metadata = types.JSONText("{}")
	}

	// Retried only for the unlikely referral-code collision.
	const maxAttempts = 3

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := newReferralCode()
		if err != nil {
			return nil, fmt.Errorf("generate referral code: %w", err)
		}

		signup, err := r.insertOnce(ctx, email, code, referredBy, metadata)
		if err == nil {
			return signup, nil
		}
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		if isReferralCodeCollision(err) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("insert signup: referral code collisions on %d attempts", maxAttempts)
}

func (r *SignupRepository) insertOnce(ctx context.Context, email, code string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert tx: %w", err)
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowxContext(ctx, constants.GetNextPosition).Scan(&position); err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	signup := entities.WaitlistSignup{
		ID:           uuid.New().String(),
		Email:        email,
		ReferralCode: code,
		ReferredBy:   referredBy,
		Position:     position,
		Metadata:     metadata,
	}

	err = tx.QueryRowxContext(ctx, constants.InsertSignup,
		signup.ID,
		signup.Email,
		signup.ReferralCode,
		signup.ReferredBy,
		signup.Position,
		signup.Metadata,
	).Scan(&signup.ID, &signup.CreatedAt)
	if err != nil {
		if isEmailConflict(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("insert signup row: %w", err)
	}

	if referredBy != nil {
		if _, err := tx.ExecContext(ctx, constants.IncrementReferralCount, *referredBy); err != nil {
			return nil, fmt.Errorf("increment referral count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isEmailConflict(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("commit insert tx: %w", err)
	}

	return &signup, nil
}

// Count returns the total number of signups.
func (r *SignupRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowxContext(ctx, constants.CountSignups).Scan(&count); err != nil {
		return 0, fmt.Errorf("count signups: %w", err)
	}
	return count, nil
}

// ListAll returns every signup ordered by position ascending.
func (r *SignupRepository) ListAll(ctx context.Context) ([]entities.WaitlistSignup, error) {
	signups := []entities.WaitlistSignup{}
	if err := r.db.SelectContext(ctx, &signups, constants.ListSignupsByPosition); err != nil {
		return nil, fmt.Errorf("list signups: %w", err)
	}
	return signups, nil
}

// newReferralCode returns a random lowercase 12-hex-character token.
func newReferralCode() (string, error) {
	buf := make([]byte, constants.ReferralCodeLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func isEmailConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation && pqErr.Constraint == "waitlist_signups_email_key"
	}
	return false
}

func isReferralCodeCollision(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation && pqErr.Constraint == "waitlist_signups_referral_code_key"
	}
	return false
}
