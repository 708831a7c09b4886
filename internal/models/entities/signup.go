package entities

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// WaitlistSignup is one waitlist entry, keyed by email.
type WaitlistSignup struct {
	ID            string         `db:"id" json:"id"`
	Email         string         `db:"email" json:"email"`
	ReferralCode  string         `db:"referral_code" json:"referral_code"`
	ReferredBy    *string        `db:"referred_by" json:"referred_by"`
	ReferralCount int            `db:"referral_count" json:"referral_count"`
	Position      int            `db:"position" json:"position"`
	Metadata      types.JSONText `db:"metadata" json:"metadata"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
