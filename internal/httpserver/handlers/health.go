package handlers

import (
	"net/http"
	"time"

	"github.com/minedex/minedex/internal/httpserver/deps"
)

type healthData struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Version       string    `json:"version,omitempty"`
}

func Health(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		respondData(w, http.StatusOK, healthData{
			Status:        "ok",
			Timestamp:     d.TimeNow(),
			UptimeSeconds: time.Since(start).Seconds(),
			Version:       d.Version,
		})
	}
}
