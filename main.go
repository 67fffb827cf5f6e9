package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/collections"
	"bidestimator/config"
	"bidestimator/handlers"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()
	cfg := config.Load()

	app := pocketbase.New()

	// Create collections, seed data and run startup migrations
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if cfg.App.SeedData {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.MigrateDefaultCompanySettings(app, cfg); err != nil {
			log.Printf("Warning: company settings migration failed: %v", err)
		}
		if err := collections.MigrateEstimateNumbers(app); err != nil {
			log.Printf("Warning: estimate number migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.LayoutDataMiddleware(app))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.GET("/projects/create", handlers.HandleProjectCreate(app, cfg))
		se.Router.POST("/projects", handlers.HandleProjectSave(app, cfg))
		se.Router.GET("/projects/{id}/edit", handlers.HandleProjectEdit(app))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app))
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app))

		// ── Line items ───────────────────────────────────────────
		se.Router.POST("/projects/{id}/items", handlers.HandleLineItemAdd(app))
		se.Router.PATCH("/projects/{id}/items/{itemId}", handlers.HandleLineItemPatch(app))
		se.Router.DELETE("/projects/{id}/items/{itemId}", handlers.HandleLineItemDelete(app))

		// ── Exports ──────────────────────────────────────────────
		se.Router.GET("/projects/{id}/export/excel", handlers.HandleExportExcel(app))
		se.Router.GET("/projects/{id}/export/pdf", handlers.HandleExportPDF(app))

		// ── Materials catalog ────────────────────────────────────
		se.Router.GET("/materials", handlers.HandleMaterialList(app))
		se.Router.POST("/materials", handlers.HandleMaterialCreate(app))
		se.Router.GET("/materials/import", handlers.HandleMaterialImportPage(app))
		se.Router.POST("/materials/import", handlers.HandleMaterialValidate(app))
		se.Router.POST("/materials/import/errors", handlers.HandleMaterialErrorReport(app))
		se.Router.POST("/materials/import/commit", handlers.HandleMaterialImportCommit(app))
		se.Router.GET("/materials/template", handlers.HandleMaterialTemplateDownload(app))
		se.Router.DELETE("/materials/{id}", handlers.HandleMaterialDelete(app))

		// ── Draft estimate ───────────────────────────────────────
		se.Router.GET("/draft", handlers.HandleDraftView(app, cfg))
		se.Router.DELETE("/draft", handlers.HandleDraftDiscard(app, cfg))
		se.Router.POST("/draft/items", handlers.HandleDraftItemAdd(app, cfg))
		se.Router.PATCH("/draft/items/{itemId}", handlers.HandleDraftItemPatch(app, cfg))
		se.Router.DELETE("/draft/items/{itemId}", handlers.HandleDraftItemRemove(app, cfg))
		se.Router.POST("/draft/rates", handlers.HandleDraftRates(app, cfg))
		se.Router.POST("/draft/commit", handlers.HandleDraftCommit(app, cfg))

		// ── Settings ─────────────────────────────────────────────
		se.Router.GET("/settings", handlers.HandleSettings(app, cfg))
		se.Router.POST("/settings", handlers.HandleSettingsSave(app, cfg))

		// ── JSON API ─────────────────────────────────────────────
		se.Router.GET("/api/projects/{id}", handlers.HandleAPIProject(app))
		se.Router.POST("/api/estimate", handlers.HandleAPIEstimate(app))
		se.Router.GET("/api/draft", handlers.HandleAPIDraft(app, cfg))

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
