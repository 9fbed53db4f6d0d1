package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tanktuner/services"
)

// HandleSnapshotLoad returns one snapshot's full costing state, with its
// baseline comparison when one applies.
// Route: GET /api/snapshots/{snapshotId}
func HandleSnapshotLoad(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshotID := e.Request.PathValue("snapshotId")
		record, err := app.FindRecordById("model_snapshots", snapshotID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Snapshot not found"})
		}

		snapshot, err := services.SnapshotFromRecord(record)
		if err != nil {
			log.Printf("snapshot_load: failed to decode snapshot %s: %v", snapshotID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"product":     snapshot.ProductType,
			"model":       snapshot.ModelName,
			"materials":   snapshot.Materials,
			"final_cost":  snapshot.FinalCost,
			"is_original": snapshot.IsOriginal,
			"notes":       snapshot.Notes,
			"saved_at":    snapshot.SavedAt,
			"comparison":  services.CompareWithOriginal(app, record),
		})
	}
}

// HandleSnapshotDelete removes a snapshot. Deleting an original makes the
// next-newest original the baseline for its model, or leaves the model
// without one. Route: DELETE /api/snapshots/{snapshotId}
func HandleSnapshotDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshotID := e.Request.PathValue("snapshotId")
		record, err := app.FindRecordById("model_snapshots", snapshotID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Snapshot not found"})
		}

		if err := app.Delete(record); err != nil {
			log.Printf("snapshot_delete: failed to delete snapshot %s: %v", snapshotID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete snapshot"})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "Snapshot deleted successfully",
		})
	}
}
