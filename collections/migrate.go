package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// DetachOrphanAdjustedSnapshots clears dangling costing_sheet references on
// adjusted snapshots whose sheet no longer exists. Sheet deletion detaches
// its adjusted snapshots in the same request, but rows written before that
// policy existed can still point at deleted sheets.
// Safe to call on every startup -- returns early if nothing to fix.
func DetachOrphanAdjustedSnapshots(app *pocketbase.PocketBase) error {
	snapshots, err := app.FindRecordsByFilter(
		"model_snapshots",
		"is_original = false && costing_sheet != ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query adjusted snapshots: %w", err)
	}

	detached := 0
	for _, snapshot := range snapshots {
		sheetID := snapshot.GetString("costing_sheet")
		if _, err := app.FindRecordById("costing_sheets", sheetID); err == nil {
			continue
		}

		snapshot.Set("costing_sheet", "")
		if err := app.Save(snapshot); err != nil {
			log.Printf("migrate: failed to detach snapshot %s from deleted sheet %s: %v\n",
				snapshot.Id, sheetID, err)
			continue
		}
		detached++
	}

	if detached > 0 {
		log.Printf("migrate: detached %d adjusted snapshot(s) from deleted sheets.\n", detached)
	}
	return nil
}
