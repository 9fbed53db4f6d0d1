package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tanktuner/services"
)

// projectSummary is the list/detail JSON shape for a project with its
// derived stats.
type projectSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ClientName   string  `json:"client_name"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
	TotalModels  int     `json:"total_models"`
	TotalSheets  int     `json:"total_sheets"`
	TotalSavings float64 `json:"total_savings"`
}

func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projects, err := app.FindRecordsByFilter(
			"projects",
			"is_active = true",
			"-created", 0, 0,
			nil,
		)
		if err != nil {
			log.Printf("project_list: failed to load projects: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load projects"})
		}

		summaries := make([]projectSummary, 0, len(projects))
		for _, project := range projects {
			summary, err := summarizeProject(app, project)
			if err != nil {
				log.Printf("project_list: failed to summarize project %s: %v", project.Id, err)
				return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load projects"})
			}
			summaries = append(summaries, summary)
		}

		return e.JSON(http.StatusOK, map[string]any{"projects": summaries})
	}
}

func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload struct {
			Name        string `json:"name"`
			ClientName  string `json:"client_name"`
			Description string `json:"description"`
			CreatedBy   string `json:"created_by"`
		}
		if err := e.BindBody(&payload); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		}

		name := strings.TrimSpace(payload.Name)
		if name == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Project name is required"})
		}

		existing, err := app.FindRecordsByFilter(
			"projects",
			"name = {:name} && is_active = true",
			"", 1, 0,
			map[string]any{"name": name},
		)
		if err == nil && len(existing) > 0 {
			return e.JSON(http.StatusConflict, map[string]string{"error": "A project with this name already exists"})
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		record := core.NewRecord(col)
		record.Set("name", name)
		record.Set("client_name", strings.TrimSpace(payload.ClientName))
		record.Set("description", strings.TrimSpace(payload.Description))
		record.Set("created_by", strings.TrimSpace(payload.CreatedBy))
		record.Set("is_active", true)

		if err := app.Save(record); err != nil {
			log.Printf("project_create: failed to save project: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create project"})
		}

		log.Printf("project_create: created project %s (%s)", record.Id, name)

		return e.JSON(http.StatusCreated, map[string]any{
			"success": true,
			"id":      record.Id,
			"name":    name,
		})
	}
}

func HandleProjectDetail(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Missing project ID"})
		}

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		}

		summary, err := summarizeProject(app, project)
		if err != nil {
			log.Printf("project_detail: failed to summarize project %s: %v", projectID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		sheets, err := app.FindRecordsByFilter(
			"costing_sheets",
			"project = {:project}",
			"-uploaded", 0, 0,
			map[string]any{"project": projectID},
		)
		if err != nil {
			log.Printf("project_detail: failed to load sheets for %s: %v", projectID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		sheetList := make([]map[string]any, 0, len(sheets))
		for _, sheet := range sheets {
			sheetList = append(sheetList, map[string]any{
				"id":                sheet.Id,
				"original_filename": sheet.GetString("original_filename"),
				"total_models":      sheet.GetInt("total_models"),
				"notes":             sheet.GetString("notes"),
				"uploaded":          sheet.GetDateTime("uploaded").String(),
			})
		}

		models, err := distinctModels(app, projectID)
		if err != nil {
			log.Printf("project_detail: failed to load models for %s: %v", projectID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"project": summary,
			"sheets":  sheetList,
			"models":  models,
		})
	}
}

// HandleProjectDelete deactivates a project. Its sheets and snapshots stay
// in the store so the project can be reactivated with history intact.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Missing project ID"})
		}

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_delete: could not find project %s: %v", projectID, err)
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		}

		project.Set("is_active", false)
		if err := app.Save(project); err != nil {
			log.Printf("project_delete: failed to deactivate project %s: %v", projectID, err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete project"})
		}

		log.Printf("project_delete: deactivated project %s", projectID)

		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "Project deleted successfully",
		})
	}
}

func summarizeProject(app *pocketbase.PocketBase, project *core.Record) (projectSummary, error) {
	sheets, err := app.FindRecordsByFilter(
		"costing_sheets",
		"project = {:project}",
		"", 0, 0,
		map[string]any{"project": project.Id},
	)
	if err != nil {
		return projectSummary{}, err
	}

	models, err := distinctModels(app, project.Id)
	if err != nil {
		return projectSummary{}, err
	}

	stats, err := services.StatsSummary(app, project.Id)
	if err != nil {
		return projectSummary{}, err
	}

	clientName := project.GetString("client_name")
	if clientName == "" {
		clientName = "N/A"
	}

	return projectSummary{
		ID:           project.Id,
		Name:         project.GetString("name"),
		ClientName:   clientName,
		Description:  project.GetString("description"),
		CreatedAt:    project.GetDateTime("created").String(),
		TotalModels:  len(models),
		TotalSheets:  len(sheets),
		TotalSavings: stats.TotalSavings,
	}, nil
}

// distinctModels lists the unique (product_type, model_name) pairs a
// project's original snapshots define.
func distinctModels(app *pocketbase.PocketBase, projectID string) ([]map[string]string, error) {
	snapshots, err := app.FindRecordsByFilter(
		"model_snapshots",
		"project = {:project} && is_original = true",
		"product_type,model_name", 0, 0,
		map[string]any{"project": projectID},
	)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	models := []map[string]string{}
	for _, snapshot := range snapshots {
		product := snapshot.GetString("product_type")
		model := snapshot.GetString("model_name")
		key := product + "\x00" + model
		if seen[key] {
			continue
		}
		seen[key] = true
		models = append(models, map[string]string{
			"product_type": product,
			"model_name":   model,
		})
	}
	return models, nil
}
