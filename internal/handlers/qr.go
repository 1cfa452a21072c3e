package handlers

import (
	"encoding/json"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"qr-attendance/internal/models"
	"qr-attendance/internal/services"
)

// badgeSize matches the original 210px badge with medium recovery level.
const badgeSize = 210

// QRHandler renders the authenticated identity as a scannable badge.
type QRHandler struct {
	sessions *services.SessionStore
}

// NewQRHandler creates a QR badge handler.
func NewQRHandler(sessions *services.SessionStore) *QRHandler {
	return &QRHandler{sessions: sessions}
}

// HandleMyQR returns a PNG QR code carrying the identity payload that the
// scanner consumes. Available to every authenticated user.
func (h *QRHandler) HandleMyQR(w http.ResponseWriter, r *http.Request) {
	identity := h.sessions.Identity()
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	payload, err := json.Marshal(models.ScanPayload{
		ID:    identity.ID,
		Email: identity.Email,
		Name:  identity.Name,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, badgeSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
