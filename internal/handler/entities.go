package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmaia/fleetdesk/backend/internal/store"
)

// entityCollections is the whitelist for the generic CRUD escape hatch.
// "requests" is deliberately included: the store allows arbitrary field
// updates below the lifecycle engine, an administrator-only layering weakness
// carried over from the legacy console.
var entityCollections = map[string]bool{
	"requests":     true,
	"users":        true,
	"employees":    true,
	"vehicles":     true,
	"sectors":      true,
	"drivers":      true,
	"maintenances": true,
	"alerts":       true,
}

// collectionParam validates the {collection} path parameter against the
// whitelist. Unknown collections are a 404, not a 422 — the route does not
// exist.
func collectionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	collection := chi.URLParam(r, "collection")
	if !entityCollections[collection] {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "unknown collection"))
		return "", false
	}
	return collection, true
}

// ListEntities handles GET /api/entities/{collection}.
func (s *Server) ListEntities(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}

	recs, err := s.store.List(r.Context(), collection)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		doc, err := entityToResponse(rec)
		if err != nil {
			writeError(w, r, err)
			return
		}
		data = append(data, doc)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetEntity handles GET /api/entities/{collection}/{id}.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}

	rec, err := s.store.Get(r.Context(), collection, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := entityToResponse(rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// CreateEntity handles POST /api/entities/{collection}.
// The server assigns the id; any id in the body is ignored.
func (s *Server) CreateEntity(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}

	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body: "+err.Error()))
		return
	}

	id := uuid.NewString()
	doc["id"] = id
	rec, err := s.store.Create(r.Context(), collection, id, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := entityToResponse(rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// UpdateEntity handles PUT /api/entities/{collection}/{id} as a partial
// merge: body fields overlay the stored document, everything else survives.
// A numeric "version" field in the body opts into the compare-and-swap;
// without it the write is last-write-wins, as the legacy console behaved.
func (s *Server) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body: "+err.Error()))
		return
	}

	var expectedVersion int64
	if v, ok := partial["version"].(float64); ok {
		expectedVersion = int64(v)
	}

	existing, err := s.store.Get(r.Context(), collection, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var doc map[string]any
	if err := json.Unmarshal(existing.Data, &doc); err != nil {
		writeError(w, r, err)
		return
	}
	for k, v := range partial {
		switch k {
		case "id", "version", "created_at", "updated_at":
			// envelope fields are store-maintained
		default:
			doc[k] = v
		}
	}

	rec, err := s.store.Update(r.Context(), collection, id, doc, expectedVersion)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := entityToResponse(rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteEntity handles DELETE /api/entities/{collection}/{id}.
func (s *Server) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	collection, ok := collectionParam(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), collection, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// entityToResponse merges the stored document with its envelope fields.
func entityToResponse(rec store.Record) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(rec.Data, &doc); err != nil {
		return nil, err
	}
	doc["id"] = rec.ID
	doc["created_at"] = rec.CreatedAt
	doc["updated_at"] = rec.UpdatedAt
	doc["version"] = rec.Version
	return doc, nil
}
