package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/api/responses"
	"github.com/angelmondragon/siteadmin-backend/api/validators"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
)

// readSave parses a record write and decodes its payload into dest. The
// caller owns the returned request and must Close it.
func readSave(w http.ResponseWriter, r *http.Request, logg *logger.Logger, dest any) (*validators.SaveRequest, bool) {
	req, err := validators.ReadSaveRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	if err := req.Decode(dest); err != nil {
		req.Close()
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return req, true
}

// optionalID returns nil when the route has no id segment, which marks a create.
func optionalID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*uuid.UUID, bool) {
	if chi.URLParam(r, "id") == "" {
		return nil, true
	}
	id, ok := requireID(w, r, logg)
	if !ok {
		return nil, false
	}
	return &id, true
}

func requireID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	id, err := validators.ParseUUIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return uuid.Nil, false
	}
	return id, true
}

// writeSaved answers 201 for creates and 200 for updates.
func writeSaved(w http.ResponseWriter, id *uuid.UUID, data any) {
	if id == nil {
		responses.WriteCreated(w, data)
		return
	}
	responses.WriteSuccess(w, data)
}

func queryText(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
