package dtos

import "github.com/yethikrishna/y0-waitlist-builder/internal/models/entities"

// SignupResult is returned by the signup endpoint. AlreadyExists carries the
// idempotent re-submission case: success with advisory error text, not a
// failure.
type SignupResult struct {
	Success       bool   `json:"success"`
	Position      int    `json:"position,omitempty"`
	ReferralCode  string `json:"referralCode,omitempty"`
	ReferralCount int    `json:"referralCount"`
	SpotsGained   int    `json:"spotsGained"`
	AlreadyExists bool   `json:"alreadyExists,omitempty"`
	Error         string `json:"error,omitempty"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type SignupListResponse struct {
	Signups []entities.WaitlistSignup `json:"signups"`
}

type AdminVerifyResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type NotifyResponse struct {
	Success bool `json:"success"`
}

// TopReferrer is one row of the referral leaderboard.
type TopReferrer struct {
	Email         string `json:"email"`
	ReferralCode  string `json:"referral_code"`
	ReferralCount int    `json:"referral_count"`
	Position      int    `json:"position"`
}

// ReferralStats aggregates referral activity over the whole table.
type ReferralStats struct {
	TotalSignups        int           `json:"total_signups"`
	TotalReferrals      int           `json:"total_referrals"`
	ReferredSignups     int           `json:"referred_signups"`
	ConversionRate      float64       `json:"conversion_rate"`
	AvgReferralsPerUser float64       `json:"avg_referrals_per_user"`
	TopReferrers        []TopReferrer `json:"top_referrers"`
}
