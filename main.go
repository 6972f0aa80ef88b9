package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"pavingquotes/collections"
	"pavingquotes/config"
	"pavingquotes/handlers"
)

func main() {
	cfg := config.Load()
	app := pocketbase.New()
	sessions := handlers.NewQuoteSessions(handlers.DefaultSessionTTL)

	app.RootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create the collections and load the starter price catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			if err := collections.MigrateLegacyEquipmentPrices(app); err != nil {
				return fmt.Errorf("migrate equipment prices: %w", err)
			}
			if err := collections.Seed(app); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog seeded.")
			return nil
		},
	})

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateLegacyEquipmentPrices(app); err != nil {
			log.Printf("Warning: equipment price migration failed: %v", err)
		}
		if cfg.SeedCatalog {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.SidebarMiddleware(app))

		// ── Saved quotes ─────────────────────────────────────────
		se.Router.GET("/quotes", handlers.HandleQuoteList(app))
		se.Router.GET("/quotes/new-from-estimate/{estimateId}",
			handlers.HandleQuoteFromEstimate(app, sessions, cfg.DefaultMarkupPercentage))
		se.Router.GET("/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(app, cfg.BusinessName))
		se.Router.GET("/quotes/{id}/export/excel", handlers.HandleQuoteExportExcel(app, cfg.BusinessName))
		se.Router.GET("/quotes/{id}", handlers.HandleQuoteView(app))

		// ── Quote editing sessions ───────────────────────────────
		editor := se.Router.Group("/quote-sessions/{sessionId}")
		editor.BindFunc(handlers.QuoteSessionMiddleware(sessions))
		editor.PATCH("/items/{itemId}", handlers.HandleQuoteItemPatch())
		editor.POST("/options", handlers.HandleQuoteOptionToggle())
		editor.POST("/markup", handlers.HandleQuoteMarkup())
		editor.POST("/save", handlers.HandleQuoteSave(app, sessions))
		editor.POST("/discard", handlers.HandleQuoteDiscard(sessions))

		// ── Estimates ────────────────────────────────────────────
		se.Router.GET("/estimates", handlers.HandleEstimateList(app))
		se.Router.POST("/estimates", handlers.HandleEstimateSave(app))

		// ── Price catalogs ───────────────────────────────────────
		se.Router.GET("/catalog/{kind}/template", handlers.HandleCatalogTemplateDownload())
		se.Router.GET("/catalog/{kind}/import", handlers.HandleCatalogImportPage())
		se.Router.POST("/catalog/{kind}/import", handlers.HandleCatalogValidate())
		se.Router.POST("/catalog/{kind}/import/commit", handlers.HandleCatalogImportCommit(app))
		se.Router.POST("/catalog/{kind}/import/errors", handlers.HandleCatalogErrorReport())
		se.Router.GET("/catalog/{kind}", handlers.HandleCatalogList(app))

		// Redirect home to quotes list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/quotes")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
