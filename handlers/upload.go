package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"tanktuner/services"
)

// HandleUpload receives a costing spreadsheet, extracts its models and
// persists them as original snapshots. Route: POST /api/projects/{id}/upload
func HandleUpload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Missing project ID"})
		}

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		}

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "File too large or invalid form data"})
		}

		file, header, err := e.Request.FormFile("costing_file")
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Please select a file to upload"})
		}
		defer file.Close()

		notes := e.Request.FormValue("notes")

		parsed, err := services.ParseCostingSheet(file)
		if err != nil {
			log.Printf("upload: failed to parse %s: %v", header.Filename, err)
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Error parsing Excel file: " + err.Error()})
		}
		if services.CountModels(parsed) == 0 {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "No models found in the uploaded sheet"})
		}

		stored, err := filesystem.NewFileFromMultipart(header)
		if err != nil {
			log.Printf("upload: failed to wrap uploaded file %s: %v", header.Filename, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store uploaded file"})
		}

		result, err := services.CommitCostingSheet(app, projectID, parsed, stored, header.Filename, notes)
		if err != nil {
			log.Printf("upload: failed to commit sheet %s for project %s: %v", header.Filename, projectID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save costing sheet"})
		}

		log.Printf("upload: stored sheet %s for project %s (%d models)",
			result.SheetID, projectID, result.TotalModels)

		return e.JSON(http.StatusCreated, map[string]any{
			"success":      true,
			"sheet_id":     result.SheetID,
			"total_models": result.TotalModels,
		})
	}
}
