package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"tanktuner/services"
)

// HandleProducts lists the distinct product types a project's original
// snapshots define. Route: GET /api/projects/{id}/products
func HandleProducts(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		}

		snapshots, err := app.FindRecordsByFilter(
			"model_snapshots",
			"project = {:project} && is_original = true",
			"product_type", 0, 0,
			map[string]any{"project": projectID},
		)
		if err != nil {
			log.Printf("tuner_products: failed to load snapshots for %s: %v", projectID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		seen := map[string]bool{}
		products := []string{}
		for _, snapshot := range snapshots {
			product := snapshot.GetString("product_type")
			if seen[product] {
				continue
			}
			seen[product] = true
			products = append(products, product)
		}

		return e.JSON(http.StatusOK, map[string]any{"products": products})
	}
}

// HandleModels lists the distinct model names for one product type.
// Route: GET /api/projects/{id}/models?product=RCT
func HandleModels(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		product := e.Request.URL.Query().Get("product")

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		}

		snapshots, err := app.FindRecordsByFilter(
			"model_snapshots",
			"project = {:project} && product_type = {:product} && is_original = true",
			"model_name", 0, 0,
			map[string]any{"project": projectID, "product": product},
		)
		if err != nil {
			log.Printf("tuner_models: failed to load snapshots for %s: %v", projectID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		seen := map[string]bool{}
		models := []string{}
		for _, snapshot := range snapshots {
			model := snapshot.GetString("model_name")
			if seen[model] {
				continue
			}
			seen[model] = true
			models = append(models, model)
		}

		return e.JSON(http.StatusOK, map[string]any{"models": models})
	}
}

// HandleModelData returns the working state of one model for the tuner:
// the latest snapshot of either kind, so the user resumes where they left
// off. Route: GET /api/projects/{id}/model-data?product=RCT&model=Tank-500L
func HandleModelData(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		product := e.Request.URL.Query().Get("product")
		model := e.Request.URL.Query().Get("model")

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		}

		record := services.FindLatest(app, projectID, product, model)
		if record == nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Model not found"})
		}

		snapshot, err := services.SnapshotFromRecord(record)
		if err != nil {
			log.Printf("tuner_model_data: failed to decode snapshot %s: %v", record.Id, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"product":     snapshot.ProductType,
			"model":       snapshot.ModelName,
			"materials":   snapshot.Materials,
			"final_cost":  snapshot.FinalCost,
			"is_original": snapshot.IsOriginal,
			"snapshot_id": snapshot.ID,
		})
	}
}

// HandleSaveSnapshot persists the tuner's current state as an adjusted
// snapshot. Originals only ever come from uploads; this endpoint cannot
// create one. Route: POST /api/projects/{id}/save-snapshot
func HandleSaveSnapshot(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		}

		var payload struct {
			Product   string                  `json:"product"`
			Model     string                  `json:"model"`
			Materials []services.MaterialLine `json:"materials"`
			FinalCost float64                 `json:"final_cost"`
			Notes     string                  `json:"notes"`
		}
		if err := e.BindBody(&payload); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		}
		if payload.Product == "" || payload.Model == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Product and model are required"})
		}

		col, err := app.FindCollectionByNameOrId("model_snapshots")
		if err != nil {
			log.Printf("tuner_save: could not find model_snapshots collection: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		record := core.NewRecord(col)
		if err := services.SetSnapshotFields(record,
			projectID, "", payload.Product, payload.Model,
			payload.Materials, payload.FinalCost, false, payload.Notes,
		); err != nil {
			log.Printf("tuner_save: failed to set snapshot fields: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save snapshot"})
		}
		record.Set("saved", types.NowDateTime())

		if err := app.Save(record); err != nil {
			log.Printf("tuner_save: failed to save snapshot: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save snapshot"})
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"success":     true,
			"snapshot_id": record.Id,
			"saved_at":    record.GetDateTime("saved").String(),
			"message":     "Model saved successfully!",
		})
	}
}

// HandleSavedModels lists every stored snapshot of one model with a
// display label. Route: GET /api/projects/{id}/saved-models?product=&model=
func HandleSavedModels(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		product := e.Request.URL.Query().Get("product")
		model := e.Request.URL.Query().Get("model")

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		}

		if product == "" || model == "" {
			return e.JSON(http.StatusOK, map[string]any{"snapshots": []any{}})
		}

		records, err := app.FindRecordsByFilter(
			"model_snapshots",
			"project = {:project} && product_type = {:product} && model_name = {:model}",
			"-saved", 0, 0,
			map[string]any{"project": projectID, "product": product, "model": model},
		)
		if err != nil {
			log.Printf("tuner_saved_models: failed to load snapshots: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		snapshots := make([]map[string]any, 0, len(records))
		for _, record := range records {
			kind := "Adjusted"
			if record.GetBool("is_original") {
				kind = "Original"
			}
			saved := record.GetDateTime("saved")
			snapshots = append(snapshots, map[string]any{
				"id":          record.Id,
				"saved_at":    saved.String(),
				"is_original": record.GetBool("is_original"),
				"final_cost":  record.GetFloat("final_cost"),
				"notes":       record.GetString("notes"),
				"label":       kind + " - " + saved.Time().Format("Jan 02, 15:04"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"snapshots": snapshots})
	}
}
