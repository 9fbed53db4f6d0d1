package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleSheetDelete removes a costing sheet. Original snapshots created
// from the sheet go with it; adjusted snapshots represent user work and
// are kept, with their sheet reference cleared.
// Route: DELETE /api/projects/{id}/sheets/{sheetId}
func HandleSheetDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		sheetID := e.Request.PathValue("sheetId")
		if projectID == "" || sheetID == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Missing project or sheet ID"})
		}

		sheet, err := app.FindRecordById("costing_sheets", sheetID)
		if err != nil || sheet.GetString("project") != projectID {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Costing sheet not found"})
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			snapshots, err := txApp.FindRecordsByFilter(
				"model_snapshots",
				"costing_sheet = {:sheet}",
				"", 0, 0,
				map[string]any{"sheet": sheetID},
			)
			if err != nil {
				return err
			}

			for _, snapshot := range snapshots {
				if snapshot.GetBool("is_original") {
					if err := txApp.Delete(snapshot); err != nil {
						return err
					}
					continue
				}
				snapshot.Set("costing_sheet", "")
				if err := txApp.Save(snapshot); err != nil {
					return err
				}
			}

			return txApp.Delete(sheet)
		})
		if err != nil {
			log.Printf("sheet_delete: failed to delete sheet %s: %v", sheetID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete costing sheet"})
		}

		log.Printf("sheet_delete: deleted sheet %s from project %s", sheetID, projectID)

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "Costing sheet deleted successfully",
		})
	}
}
