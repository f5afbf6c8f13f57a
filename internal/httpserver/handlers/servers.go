package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minedex/minedex/internal/domain"
	"github.com/minedex/minedex/internal/httpserver/deps"
	"github.com/minedex/minedex/internal/logger"
	"github.com/minedex/minedex/internal/registry"
)

// serverPayload is the request body for create and update. Pointers tell an
// absent field apart from an explicitly empty one, which matters for partial
// updates of description and contact.
type serverPayload struct {
	Name        *string     `json:"name"`
	Host        *string     `json:"host"`
	Port        domain.Port `json:"port"`
	Description *string     `json:"description"`
	Contact     *string     `json:"contact"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListServers answers the full directory. A registry read failure degrades
// to an empty list and never fails the request.
func ListServers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := d.Registry.List()
		if err != nil {
			d.Logger.Warn("serving empty server list after read failure", logger.Error(err))
		}
		respondData(w, http.StatusOK, entries)
	}
}

// CreateServer registers a new entry.
func CreateServer(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body serverPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		entry, err := d.Registry.Create(registry.CreateInput{
			Name:        deref(body.Name),
			Host:        deref(body.Host),
			Port:        body.Port,
			Description: deref(body.Description),
			Contact:     deref(body.Contact),
		})
		switch {
		case errors.Is(err, registry.ErrNameRequired), errors.Is(err, registry.ErrHostRequired):
			respondError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			d.Logger.Error("failed to create server", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to save server")
		default:
			d.Logger.Info("server registered",
				logger.String("id", entry.ID),
				logger.String("name", entry.Name))
			respondData(w, http.StatusCreated, entry)
		}
	}
}

// UpdateServer applies a partial update to an existing entry.
func UpdateServer(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var body serverPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		entry, err := d.Registry.Update(id, registry.UpdateInput{
			Name:        body.Name,
			Host:        body.Host,
			Port:        body.Port,
			Description: body.Description,
			Contact:     body.Contact,
		})
		switch {
		case errors.Is(err, registry.ErrNotFound):
			respondError(w, http.StatusNotFound, "server not found")
		case err != nil:
			d.Logger.Error("failed to update server",
				logger.String("id", id),
				logger.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to update server")
		default:
			respondData(w, http.StatusOK, entry)
		}
	}
}

// DeleteServer removes an entry and drops its cached status.
func DeleteServer(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := d.Registry.Delete(id)
		switch {
		case errors.Is(err, registry.ErrNotFound):
			respondError(w, http.StatusNotFound, "server not found")
		case err != nil:
			d.Logger.Error("failed to delete server",
				logger.String("id", id),
				logger.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to delete server")
		default:
			if d.StatusCache != nil {
				if err := d.StatusCache.InvalidateStatus(r.Context(), id); err != nil {
					d.Logger.Debug("failed to drop cached status", logger.Error(err))
				}
			}
			respondMessage(w, "server deleted")
		}
	}
}
