package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/minedex/minedex/internal/httpserver/deps"
	"github.com/minedex/minedex/internal/logger"
)

// SendVerificationCode issues a fresh code and mails it to the admin
// mailbox. A delivery failure is a 500; the code stays valid in memory
// regardless, in case the mail partially went through.
func SendVerificationCode(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Verifier.Issue(r.Context()); err != nil {
			d.Logger.Error("verification code delivery failed", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to send verification code, try again later")
			return
		}
		d.Logger.Info("verification code issued and mailed")
		respondMessage(w, "verification code sent to the admin mailbox")
	}
}

// VerifyCode checks a submitted code against the outstanding session.
// All verification failures answer 400 with the session manager's message,
// which carries the remaining-attempt count on a mismatch.
func VerifyCode(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		code := strings.TrimSpace(body.Code)
		if code == "" {
			respondError(w, http.StatusBadRequest, "verification code must not be empty")
			return
		}

		if err := d.Verifier.Verify(code); err != nil {
			d.Logger.Warn("verification failed", logger.Error(err))
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		d.Logger.Info("verification succeeded")
		respondMessage(w, "verification successful")
	}
}
