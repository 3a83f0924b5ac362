// Package drawings exposes the drawing sharing API on top of a
// core.DrawingStore.
package drawings

import (
	"encoding/json"
	"errors"
	"excalidraw-share/core"
	"excalidraw-share/idgen"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	UploadResponse struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}

	ListResponse struct {
		Drawings []core.DrawingMeta `json:"drawings"`
	}

	// PublicDrawingMeta is the listing shape served without auth; byte
	// sizes are withheld.
	PublicDrawingMeta struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
	}

	PublicListResponse struct {
		Drawings []PublicDrawingMeta `json:"drawings"`
	}
)

// HandleUpload stores a drawing. A body carrying an "id" field updates that
// drawing in place (200); otherwise a fresh short id is generated (201).
// The document must have type "excalidraw" and an "elements" array, checked
// here before anything touches storage.
func HandleUpload(store core.DrawingStore, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, map[string]string{"error": "Payload too large"})
				return
			}
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Failed to read request body"})
			return
		}
		defer r.Body.Close()

		var doc map[string]any
		if err := json.Unmarshal(body, &doc); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid JSON: " + err.Error()})
			return
		}

		if docType, _ := doc["type"].(string); docType != "excalidraw" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid document: missing or wrong 'type' field. Expected 'excalidraw'."})
			return
		}
		if _, ok := doc["elements"].([]any); !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid document: missing 'elements' array."})
			return
		}

		// A caller-supplied id means update-in-place; it is not part of
		// the stored document.
		id, _ := doc["id"].(string)
		isUpdate := id != ""
		delete(doc, "id")

		if !isUpdate {
			id = idgen.New()
			exists, err := store.Exists(r.Context(), id)
			if err != nil {
				logrus.WithError(err).Error("Failed to check id availability")
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, map[string]string{"error": "Internal server error"})
				return
			}
			if exists {
				id = idgen.NewUnique()
			}
		}

		data, err := json.Marshal(doc)
		if err != nil {
			logrus.WithError(err).Error("Failed to encode document")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}

		if _, err := store.Save(r.Context(), id, data); err != nil {
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"drawing_id": id,
			}).Error("Failed to save drawing")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}

		url := strings.TrimRight(baseURL, "/") + "/d/" + id
		log := logrus.WithFields(logrus.Fields{"drawing_id": id, "url": url})
		if isUpdate {
			log.Info("Drawing updated")
			render.Status(r, http.StatusOK)
		} else {
			log.Info("Drawing uploaded")
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, UploadResponse{ID: id, URL: url})
	}
}

// HandleGet serves a stored drawing verbatim.
func HandleGet(store core.DrawingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		doc, err := store.Load(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, map[string]string{"error": "Drawing not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"drawing_id": id,
			}).Error("Failed to load drawing")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(doc)
	}
}

// HandleDelete removes a drawing, responding 204 on success.
func HandleDelete(store core.DrawingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := store.Delete(r.Context(), id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, map[string]string{"error": "Drawing not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"error":      err,
				"drawing_id": id,
			}).Error("Failed to delete drawing")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}

		logrus.WithField("drawing_id", id).Info("Drawing deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleList returns full metadata for every stored drawing, newest first.
func HandleList(store core.DrawingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drawings, err := store.List(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to list drawings")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}

		if drawings == nil {
			drawings = []core.DrawingMeta{}
		}
		render.JSON(w, r, ListResponse{Drawings: drawings})
	}
}

// HandleListPublic returns the unauthenticated listing with sizes withheld.
func HandleListPublic(store core.DrawingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drawings, err := store.List(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to list drawings")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}

		public := make([]PublicDrawingMeta, 0, len(drawings))
		for _, d := range drawings {
			public = append(public, PublicDrawingMeta{
				ID:        d.ID,
				CreatedAt: d.CreatedAt,
			})
		}
		render.JSON(w, r, PublicListResponse{Drawings: public})
	}
}
