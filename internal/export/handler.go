package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/drawdeck/drawdeck/backend-go/internal/scene"
	"github.com/drawdeck/drawdeck/backend-go/internal/store"
)

// Handler exports a project's latest scene document as a JSON download.
// Raster export stays with the frontend, which owns the canvas pixels.
type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// ExportDocument handles GET /export/{projectId}/document.
func (h *Handler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	snap, err := h.store.GetLatestSnapshot(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "no snapshot for project", http.StatusNotFound)
			return
		}
		slog.Error("load snapshot for export", "error", err, "project", projectID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Validate and pick a filename from the document itself.
	var doc scene.Document
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		slog.Error("corrupt snapshot document", "error", err, "project", projectID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := sanitizeFilename(doc.Project.Name)
	if name == "" {
		name = "scene"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, name))
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Document)
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
