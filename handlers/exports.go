package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tanktuner/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// loadSnapshot resolves a snapshot path param into its typed form.
func loadSnapshot(app *pocketbase.PocketBase, e *core.RequestEvent) (*services.Snapshot, error) {
	snapshotID := e.Request.PathValue("snapshotId")
	record, err := app.FindRecordById("model_snapshots", snapshotID)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snapshotID, err)
	}
	return services.SnapshotFromRecord(record)
}

// HandleExportModelCSV downloads one snapshot as a line-item CSV.
// Route: GET /api/snapshots/{snapshotId}/export/csv
func HandleExportModelCSV(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshot, err := loadSnapshot(app, e)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Snapshot not found"})
		}

		data, err := services.ModelCSV(snapshot)
		if err != nil {
			log.Printf("export_csv: failed to generate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate CSV"})
		}

		filename := sanitizeFilename(snapshot.ModelName) + "_costing.csv"
		e.Response.Header().Set("Content-Type", "text/csv")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(data)
		return nil
	}
}

// HandleExportSnapshotExcel downloads one snapshot as a styled workbook.
// Route: GET /api/snapshots/{snapshotId}/export/xlsx
func HandleExportSnapshotExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshot, err := loadSnapshot(app, e)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Snapshot not found"})
		}

		data, err := services.SnapshotExcel(snapshot)
		if err != nil {
			log.Printf("export_xlsx: failed to generate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate Excel file"})
		}

		filename := sanitizeFilename(snapshot.ModelName) + "_costing.xlsx"
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(data)
		return nil
	}
}

// resolveComparisonPair loads an adjusted snapshot and its baseline.
func resolveComparisonPair(app *pocketbase.PocketBase, e *core.RequestEvent) (original, current *services.Snapshot, err error) {
	current, err = loadSnapshot(app, e)
	if err != nil {
		return nil, nil, err
	}
	if current.IsOriginal {
		return nil, nil, fmt.Errorf("snapshot %s is an original, nothing to compare", current.ID)
	}

	baseline := services.FindOriginal(app, current.ProjectID, current.ProductType, current.ModelName)
	if baseline == nil {
		return nil, nil, fmt.Errorf("no baseline for %s/%s", current.ProductType, current.ModelName)
	}

	original, err = services.SnapshotFromRecord(baseline)
	if err != nil {
		return nil, nil, err
	}
	return original, current, nil
}

// HandleExportComparisonCSV downloads a before/after CSV for an adjusted
// snapshot against its baseline.
// Route: GET /api/snapshots/{snapshotId}/export/comparison-csv
func HandleExportComparisonCSV(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		original, current, err := resolveComparisonPair(app, e)
		if err != nil {
			log.Printf("export_comparison_csv: %v", err)
			return e.JSON(http.StatusNotFound, map[string]string{"error": "No comparison available for this snapshot"})
		}

		data, err := services.ComparisonCSV(original, current)
		if err != nil {
			log.Printf("export_comparison_csv: failed to generate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate CSV"})
		}

		filename := sanitizeFilename(current.ModelName) + "_comparison.csv"
		e.Response.Header().Set("Content-Type", "text/csv")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(data)
		return nil
	}
}

// HandleExportComparisonPDF downloads the before/after report as a PDF.
// Route: GET /api/snapshots/{snapshotId}/export/comparison-pdf
func HandleExportComparisonPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		original, current, err := resolveComparisonPair(app, e)
		if err != nil {
			log.Printf("export_comparison_pdf: %v", err)
			return e.JSON(http.StatusNotFound, map[string]string{"error": "No comparison available for this snapshot"})
		}

		data, err := services.ComparisonPDF(original, current)
		if err != nil {
			log.Printf("export_comparison_pdf: failed to generate: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate PDF"})
		}

		filename := sanitizeFilename(current.ModelName) + "_comparison.pdf"
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(data)
		return nil
	}
}
