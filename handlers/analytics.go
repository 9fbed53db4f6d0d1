package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tanktuner/services"
)

// Analytics endpoints scope to one project via the ?project= query param
// and fall back to the whole store when it is absent.

// HandleAnalyticsStats returns the overall optimization summary.
// Route: GET /api/analytics/stats
func HandleAnalyticsStats(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		stats, err := services.StatsSummary(app, e.Request.URL.Query().Get("project"))
		if err != nil {
			log.Printf("analytics_stats: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}
		return e.JSON(http.StatusOK, stats)
	}
}

// HandleSavingsTrend returns one model's adjustment series over time.
// Route: GET /api/analytics/savings-trend?model=Tank-500L
func HandleSavingsTrend(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		model := e.Request.URL.Query().Get("model")
		if model == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "model required"})
		}

		trend, err := services.SavingsTrend(app, e.Request.URL.Query().Get("project"), model)
		if err != nil {
			log.Printf("analytics_trend: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}
		return e.JSON(http.StatusOK, trend)
	}
}

// HandleModelComparison returns the per-model baseline vs latest-adjustment
// savings table. Route: GET /api/analytics/model-comparison
func HandleModelComparison(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		models, err := services.ModelComparison(app, e.Request.URL.Query().Get("project"))
		if err != nil {
			log.Printf("analytics_comparison: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}
		if models == nil {
			models = []services.ModelSavings{}
		}
		return e.JSON(http.StatusOK, map[string]any{"models": models})
	}
}

// HandleTopMaterials returns the heaviest cost-contributing materials.
// Route: GET /api/analytics/top-materials
func HandleTopMaterials(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		materials, err := services.TopMaterials(app, e.Request.URL.Query().Get("project"))
		if err != nil {
			log.Printf("analytics_materials: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
		}
		return e.JSON(http.StatusOK, map[string]any{"materials": materials})
	}
}

// HandleMaterialBreakdown returns one snapshot's per-material cost split.
// Route: GET /api/analytics/material-breakdown?snapshot_id=...
func HandleMaterialBreakdown(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshotID := e.Request.URL.Query().Get("snapshot_id")
		if snapshotID == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "snapshot_id required"})
		}

		breakdown, err := services.MaterialBreakdown(app, snapshotID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Snapshot not found"})
		}
		return e.JSON(http.StatusOK, breakdown)
	}
}
