package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
)

// AdminListSignups handles GET /api/v1/admin/signups. The admin gate has
// already run; this just returns the full table ordered by position.
func (h *Handlers) AdminListSignups() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signups, err := h.deps.Signups.ListAll(r.Context())
		if err != nil {
			logging.Error("Admin listing failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, constants.MsgFetchFailed)
			return
		}

		writeJSON(w, http.StatusOK, dtos.SignupListResponse{Signups: signups})
	}
}

// AdminStats handles GET /api/v1/admin/stats
func (h *Handlers) AdminStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.deps.Services.Stats.ReferralStats(r.Context())
		if err != nil {
			logging.Error("Admin stats failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, constants.MsgFetchFailed)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

// AdminExportCSV handles GET /api/v1/admin/signups/export
func (h *Handlers) AdminExportCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signups, err := h.deps.Signups.ListAll(r.Context())
		if err != nil {
			logging.Error("Admin CSV export failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, constants.MsgFetchFailed)
			return
		}

		filename := fmt.Sprintf("waitlist-signups-%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"Position", "Email", "Referral Code", "Referred By", "Referral Count", "Signed Up"})

		for _, s := range signups {
			referredBy := ""
			if s.ReferredBy != nil {
				referredBy = *s.ReferredBy
			}
			_ = cw.Write([]string{
				strconv.Itoa(s.Position),
				s.Email,
				s.ReferralCode,
				referredBy,
				strconv.Itoa(s.ReferralCount),
				s.CreatedAt.Format(time.RFC3339),
			})
		}
		cw.Flush()
	}
}

// AdminVerify handles GET /api/v1/admin/verify. Unlike the listing routes
// it never returns 401: a missing or broken credential simply reads as
// "not an admin".
func (h *Handlers) AdminVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notAdmin := dtos.AdminVerifyResponse{IsAdmin: false}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeJSON(w, http.StatusOK, notAdmin)
			return
		}

		claims, err := h.deps.Verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logging.Warn("Admin verify: rejected credential", "error", err.Error())
			writeJSON(w, http.StatusOK, notAdmin)
			return
		}

		isAdmin, err := h.deps.Roles.HasRole(r.Context(), claims.UserID(), constants.RoleAdmin)
		if err != nil {
			logging.Error("Admin verify: role lookup failed", "error", err.Error())
			writeJSON(w, http.StatusOK, notAdmin)
			return
		}

		writeJSON(w, http.StatusOK, dtos.AdminVerifyResponse{IsAdmin: isAdmin})
	}
}
