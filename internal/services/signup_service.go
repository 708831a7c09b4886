package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx/types"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/db/repositories"
	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/metrics"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/entities"
	"github.com/yethikrishna/y0-waitlist-builder/internal/validation"
)

// SignupStore is the storage surface the signup flow needs.
type SignupStore interface {
	FindByEmail(ctx context.Context, email string) (*entities.WaitlistSignup, error)
	FindByReferralCode(ctx context.Context, code string) (*entities.WaitlistSignup, error)
	Insert(ctx context.Context, email string, referredBy *string, metadata types.JSONText) (*entities.WaitlistSignup, error)
}

// NotifyDispatcher hands a notification off for delivery without blocking.
type NotifyDispatcher interface {
	Dispatch(req dtos.NotifyRequest)
}

// SignupService runs the waitlist signup flow
type SignupService struct {
	store      SignupStore
	dispatcher NotifyDispatcher
	metricsReg *metrics.MetricsRegistry
}

func NewSignupService(store SignupStore, dispatcher NotifyDispatcher, metricsReg *metrics.MetricsRegistry) *SignupService {
	return &SignupService{
		store:      store,
		dispatcher: dispatcher,
		metricsReg: metricsReg,
	}
}

// Signup normalizes and validates the request, returns the existing record
// idempotently when the email is already on the list, and otherwise inserts
// a new row and fires the admin notification. The result always carries the
// outcome; errors never leak storage detail.
func (svc *SignupService) Signup(ctx context.Context, req dtos.SignupRequest) *dtos.SignupResult {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	referredBy := strings.TrimSpace(req.ReferredBy)

	if !validation.ValidEmail(email) {
		logging.Warn("Rejected signup: invalid email format")
		return &dtos.SignupResult{Success: false, Error: constants.MsgInvalidEmail}
	}

	if !validation.ValidReferralCode(referredBy) {
		logging.Warn("Rejected signup: invalid referral code format", "referred_by", referredBy)
		return &dtos.SignupResult{Success: false, Error: constants.MsgInvalidReferralCode}
	}

	existing, err := svc.store.FindByEmail(ctx, email)
	if err != nil {
		logging.Error("Signup existence check failed", "error", err.Error())
		return &dtos.SignupResult{Success: false, Error: constants.MsgProcessingFailed}
	}

	if existing != nil {
		return svc.alreadyExists(existing)
	}

	resolvedReferrer := svc.resolveReferrer(ctx, referredBy)

	// Metadata is never taken from the client; rows start with an empty
	// object.
	signup, err := svc.store.Insert(ctx, email, resolvedReferrer, types.JSONText("{}"))
	if err != nil {
		if errors.Is(err, repositories.ErrEmailExists) {
			// Lost the race against a concurrent signup for the same
			// email; answer as if we had found it up front.
			existing, lookupErr := svc.store.FindByEmail(ctx, email)
			if lookupErr == nil && existing != nil {
				return svc.alreadyExists(existing)
			}
			logging.Error("Signup conflict re-read failed", "error", lookupErr)
			return &dtos.SignupResult{Success: false, Error: constants.MsgProcessingFailed}
		}
		logging.Error("Signup insert failed", "error", err.Error())
		return &dtos.SignupResult{Success: false, Error: constants.MsgSignupFailed}
	}

	logging.Info("New signup", "position", signup.Position, "referred", resolvedReferrer != nil)
	if svc.metricsReg != nil {
		svc.metricsReg.SignupsTotal.Inc()
		if resolvedReferrer != nil {
			svc.metricsReg.ReferredSignupsTotal.Inc()
		}
	}

	// Fire and forget: the response never waits on delivery.
	if svc.dispatcher != nil {
		notify := dtos.NotifyRequest{
			Email:        signup.Email,
			Position:     signup.Position,
			TotalSignups: signup.Position,
		}
		if resolvedReferrer != nil {
			notify.ReferredBy = *resolvedReferrer
		}
		svc.dispatcher.Dispatch(notify)
	}

	return &dtos.SignupResult{
		Success:       true,
		Position:      signup.Position,
		ReferralCode:  signup.ReferralCode,
		ReferralCount: 0,
		SpotsGained:   0,
	}
}

func (svc *SignupService) alreadyExists(existing *entities.WaitlistSignup) *dtos.SignupResult {
	if svc.metricsReg != nil {
		svc.metricsReg.DuplicateSignupsTotal.Inc()
	}
	return &dtos.SignupResult{
		Success:       true,
		AlreadyExists: true,
		Position:      existing.Position,
		ReferralCode:  existing.ReferralCode,
		ReferralCount: existing.ReferralCount,
		SpotsGained:   existing.ReferralCount * constants.SpotsPerReferral,
		Error:         constants.MsgAlreadyOnWaitlist,
	}
}

// resolveReferrer checks the supplied code against stored referral codes.
// A dangling code is dropped, never a reason to reject the signup.
func (svc *SignupService) resolveReferrer(ctx context.Context, referredBy string) *string {
	if referredBy == "" {
		return nil
	}

	code := strings.ToLower(referredBy)
	referrer, err := svc.store.FindByReferralCode(ctx, code)
	if err != nil {
		logging.Warn("Referral lookup failed, dropping referral", "error", err.Error())
		return nil
	}
	if referrer == nil {
		logging.Warn("Referral code not found", "referred_by", code)
		if svc.metricsReg != nil {
			svc.metricsReg.DroppedReferralsTotal.Inc()
		}
		return nil
	}

	return &referrer.ReferralCode
}
