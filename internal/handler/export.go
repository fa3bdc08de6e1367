package handler

import (
	"encoding/json"
	"net/http"

	"github.com/spheretrack/sphere/internal/ctxkeys"
	"github.com/spheretrack/sphere/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	snapshot, err := h.exportService.Export(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="sphere-export.json"`)
	writeJSON(w, http.StatusOK, snapshot)
}

// Import replaces all of the user's data with the posted snapshot.
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	// Snapshots outgrow the usual request cap quickly.
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodyBytes)

	var snapshot service.Snapshot
	err := json.NewDecoder(r.Body).Decode(&snapshot)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	summary, err := h.exportService.Import(user.ID, &snapshot)
	if err != nil {
		writeValidationOrServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
