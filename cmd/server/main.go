package main

import (
	"log"
	"strings"

	"smashcost-backend/internal/advisor"
	"smashcost-backend/internal/assets"
	"smashcost-backend/internal/audit"
	"smashcost-backend/internal/auth"
	"smashcost-backend/internal/catalog"
	"smashcost-backend/internal/config"
	"smashcost-backend/internal/database"
	"smashcost-backend/internal/httpx"
	"smashcost-backend/internal/pricing"
	"smashcost-backend/internal/seed"
	"smashcost-backend/internal/sheet"
	"smashcost-backend/internal/stock"
	"smashcost-backend/internal/store"
	"smashcost-backend/internal/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

// newAnalyzer returns nil when the configured backend cannot be reached, the
// advisor then answers with its placeholder.
func newAnalyzer(cfg *config.Config, pol pricing.Policy) advisor.Analyzer {
	switch cfg.AnalysisProvider {
	case "openai":
		if cfg.AnalysisAPIKey == "" {
			return nil
		}
		a, err := advisor.NewOpenAIAnalyzer(cfg.AnalysisAPIKey, cfg.AnalysisModel, cfg.AnalysisBaseURL, pol)
		if err != nil {
			log.Printf("[WARN] openai analyzer disabled: %v", err)
			return nil
		}
		return a
	default:
		if cfg.AnalysisEndpoint == "" {
			return nil
		}
		return &advisor.RemoteAnalyzer{
			Endpoint: cfg.AnalysisEndpoint,
			APIKey:   cfg.AnalysisAPIKey,
			Timeout:  cfg.AnalysisTimeout,
		}
	}
}

func main() {
	cfg := config.Load()
	db := database.Init(cfg)

	policy := pricing.Policy{
		TVARate:             cfg.TVARate,
		TargetFoodCostRatio: cfg.TargetFoodCostRatio,
		MarginAlertPercent:  cfg.MarginAlertPercent,
	}

	workspaces := workspace.NewManager(workspace.Options{
		Store:    store.NewGormStore(db),
		Policy:   catalog.Policy{StudentMenuProducts: cfg.StudentMenuProducts},
		Defaults: seed.Defaults,
		NewID:    uuid.NewString,
	})

	sessions := auth.NewManager(db, cfg.JWTSecret, cfg.JWTTTL)
	sessions.Subscribe(func(ev auth.Event) {
		switch ev.Kind {
		case auth.EventSignedIn:
			workspaces.Warm(ev.UserID)
		case auth.EventSignedOut:
			workspaces.Release(ev.UserID)
		}
	})

	auditService := audit.NewService(db)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler,
		// room for the stock workbook and product pictures
		BodyLimit: max(stock.MaxImportBytes, cfg.MaxImageBytes) + 1<<20,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		ExposeHeaders: "Content-Disposition",
	}))

	app.Static(assets.PublicPrefix, cfg.ProductImagePath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/signup", auth.SignUpHandler(sessions))
	api.Post("/auth/login", auth.LoginHandler(sessions))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))

	protected.Get("/auth/me", auth.MeHandler(sessions))
	protected.Post("/auth/logout", auth.LogoutHandler(sessions))

	sheet.Register(protected, sheet.Deps{
		Workspaces: workspaces,
		Audit:      auditService,
		Pricing:    policy,
		Advisor:    advisor.New(newAnalyzer(cfg, policy), cfg.AnalysisTimeout),
		Uploader:   assets.NewDiskUploader(cfg.ProductImagePath, cfg.PublicBaseURL, int64(cfg.MaxImageBytes)),
		NewID:      uuid.NewString,
	})
	stock.Register(protected, stock.Deps{
		Workspaces: workspaces,
		Audit:      auditService,
		NewID:      uuid.NewString,
	})

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(auditService))
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler(auditService, workspaces))

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
