package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
	"github.com/yethikrishna/y0-waitlist-builder/internal/validation"
)

// Signup handles POST /api/v1/waitlist/signup
func (h *Handlers) Signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.Warn("Signup body decode failed", "error", err.Error())
			writeJSON(w, http.StatusBadRequest, dtos.SignupResult{
				Success: false,
				Error:   constants.MsgUnexpectedError,
			})
			return
		}

		result := h.deps.Services.Signup.Signup(r.Context(), req)
		writeJSON(w, signupStatusCode(result), result)
	}
}

func signupStatusCode(result *dtos.SignupResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Error {
	case constants.MsgInvalidEmail, constants.MsgInvalidReferralCode:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Count handles GET /api/v1/waitlist/count. The count has no failure
// channel: errors surface as 0.
func (h *Handlers) Count() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := h.deps.Services.Stats.WaitlistCount(r.Context())
		writeJSON(w, http.StatusOK, dtos.CountResponse{Count: count})
	}
}

// ReferralQR handles GET /api/v1/waitlist/referral/{code}/qr and renders
// the share link for a known referral code as a PNG QR.
func (h *Handlers) ReferralQR() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToLower(chi.URLParam(r, "code"))

		if code == "" || !validation.ValidReferralCode(code) {
			writeError(w, http.StatusBadRequest, constants.MsgInvalidReferralCode)
			return
		}

		signup, err := h.deps.Signups.FindByReferralCode(r.Context(), code)
		if err != nil {
			logging.Error("Referral QR lookup failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, constants.MsgInternalError)
			return
		}
		if signup == nil {
			writeError(w, http.StatusNotFound, "Referral code not found")
			return
		}

		shareURL := strings.TrimSuffix(h.deps.PublicBaseURL, "/") + "/?ref=" + signup.ReferralCode
		png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
		if err != nil {
			logging.Error("QR encode failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, constants.MsgInternalError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
