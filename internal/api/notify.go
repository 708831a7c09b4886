package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
	"github.com/yethikrishna/y0-waitlist-builder/internal/services"
)

// Notify handles POST /internal/notify. Internal-only: the caller must
// present the shared secret, and every field is re-validated before the
// email is rendered. Responses stay generic; specifics go to the log.
func (h *Handlers) Notify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := r.Header.Get("X-Notify-Secret")
		if h.deps.NotifySecret == "" ||
			subtle.ConstantTimeCompare([]byte(secret), []byte(h.deps.NotifySecret)) != 1 {
			logging.Warn("Notify call rejected: bad shared secret")
			writeError(w, http.StatusUnauthorized, constants.MsgUnauthorized)
			return
		}

		var req dtos.NotifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.Warn("Notify body decode failed", "error", err.Error())
			writeError(w, http.StatusBadRequest, constants.MsgNotificationErr)
			return
		}

		if err := h.deps.Services.Notify.Send(r.Context(), req); err != nil {
			if errors.Is(err, services.ErrInvalidNotification) {
				logging.Warn("Notify call rejected: invalid payload", "error", err.Error())
				writeError(w, http.StatusBadRequest, constants.MsgNotificationErr)
				return
			}
			logging.Error("Notify send failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, constants.MsgNotificationErr)
			return
		}

		writeJSON(w, http.StatusOK, dtos.NotifyResponse{Success: true})
	}
}
