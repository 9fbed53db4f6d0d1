package services

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/pocketbase/pocketbase/tools/types"
)

// UploadResult summarizes a committed costing sheet upload.
type UploadResult struct {
	SheetID     string `json:"sheet_id"`
	TotalModels int    `json:"total_models"`
}

// CommitCostingSheet persists one upload event: the costing_sheets record
// plus one original snapshot per extracted model, all inside a single
// transaction. A failure anywhere rolls the whole batch back, so a sheet
// record can never claim models that were not actually persisted.
//
// The stored file may be nil (e.g. when re-processing from a reader the
// caller no longer has the multipart header for).
func CommitCostingSheet(
	app *pocketbase.PocketBase,
	projectID string,
	parsed map[string]map[string]ModelRecord,
	file *filesystem.File,
	originalFilename string,
	notes string,
) (*UploadResult, error) {
	sheetsCol, err := app.FindCollectionByNameOrId("costing_sheets")
	if err != nil {
		return nil, fmt.Errorf("costing_sheets collection not found: %w", err)
	}
	snapshotsCol, err := app.FindCollectionByNameOrId("model_snapshots")
	if err != nil {
		return nil, fmt.Errorf("model_snapshots collection not found: %w", err)
	}

	totalModels := CountModels(parsed)
	result := &UploadResult{TotalModels: totalModels}

	err = app.RunInTransaction(func(txApp core.App) error {
		sheet := core.NewRecord(sheetsCol)
		sheet.Set("project", projectID)
		sheet.Set("original_filename", originalFilename)
		sheet.Set("notes", notes)
		sheet.Set("total_models", totalModels)
		if file != nil {
			sheet.Set("file", file)
		}
		if err := txApp.Save(sheet); err != nil {
			return fmt.Errorf("save costing sheet: %w", err)
		}
		result.SheetID = sheet.Id

		savedAt := types.NowDateTime()
		for _, productType := range sortedKeys(parsed) {
			models := parsed[productType]
			for _, modelName := range sortedModelKeys(models) {
				record := models[modelName]

				snapshot := core.NewRecord(snapshotsCol)
				if err := SetSnapshotFields(snapshot,
					projectID, sheet.Id, productType, modelName,
					record.Materials, record.FinalCost, true,
					fmt.Sprintf("Original from %s", originalFilename),
				); err != nil {
					return err
				}
				snapshot.Set("saved", savedAt)

				if err := txApp.Save(snapshot); err != nil {
					return fmt.Errorf("save snapshot %s/%s: %w", productType, modelName, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func sortedKeys(parsed map[string]map[string]ModelRecord) []string {
	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedModelKeys(models map[string]ModelRecord) []string {
	keys := make([]string, 0, len(models))
	for k := range models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
