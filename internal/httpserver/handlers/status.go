package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minedex/minedex/internal/httpserver/deps"
	"github.com/minedex/minedex/internal/logger"
)

// ServerStatus answers the live status of one registered server. Unknown ids
// are a 404; everything that can go wrong during the probe itself is folded
// into the degraded status and still answers 200.
func ServerStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ctx := r.Context()

		entry, err := d.Registry.Get(id)
		if err != nil {
			respondError(w, http.StatusNotFound, "server not found")
			return
		}

		if d.StatusCache != nil {
			cached, err := d.StatusCache.GetStatus(ctx, entry.ID)
			if err != nil {
				d.Logger.Debug("status cache read failed", logger.Error(err))
			} else if cached != nil {
				d.Logger.Debug("status cache hit", logger.String("id", entry.ID))
				respondData(w, http.StatusOK, cached)
				return
			}
		}

		st := d.Prober.Probe(ctx, entry.Host, entry.Port)
		d.Logger.Info("status probed",
			logger.String("id", entry.ID),
			logger.String("host", entry.Host),
			logger.Bool("online", st.Online))

		if d.StatusCache != nil {
			if err := d.StatusCache.SetStatus(ctx, entry.ID, st, d.StatusCacheTTL); err != nil {
				d.Logger.Debug("status cache write failed", logger.Error(err))
			}
		}

		respondData(w, http.StatusOK, st)
	}
}
