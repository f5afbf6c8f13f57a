package handlers

import (
	"net/http"

	"github.com/minedex/minedex/internal/httpserver/deps"
	"github.com/minedex/minedex/internal/logger"
)

// RefreshStatuses kicks the background status refresher. Answers 202 when
// the trigger was accepted, 429 when a refresh is already running, and 503
// when the refresher is disabled (no redis configured).
func RefreshStatuses(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.RefreshTrigger == nil {
			respondError(w, http.StatusServiceUnavailable, "status refresh is disabled")
			return
		}

		select {
		case d.RefreshTrigger <- struct{}{}:
			d.Logger.Info("manual status refresh requested",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, apiResponse{Success: true, Message: "status refresh triggered"})
		default:
			d.Logger.Warn("status refresh already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			respondError(w, http.StatusTooManyRequests, "status refresh already in progress")
		}
	}
}
