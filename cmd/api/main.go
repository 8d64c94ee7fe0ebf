package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-cet-sync/internal/common/api"
	"go-cet-sync/internal/config"
	"go-cet-sync/internal/database"
	"go-cet-sync/internal/features/connection"
	"go-cet-sync/internal/features/dispatch"
	"go-cet-sync/internal/features/historical"
	"go-cet-sync/internal/features/record"
	"go-cet-sync/internal/features/syncconfig"
	"go-cet-sync/internal/features/system"
	"go-cet-sync/internal/logger"
	"go-cet-sync/internal/middleware"
	"go-cet-sync/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repositories
			connection.NewConnectionRepository,
			syncconfig.NewSyncConfigRepository,
			syncconfig.NewFieldMappingRepository,
			record.NewRecordRepository,
			historical.NewBackfillRunRepository,
			historical.NewBackfillScheduleRepository,

			// Initialize Services
			connection.NewConnectionService,
			connection.NewRegistry,
			syncconfig.NewSyncConfigService,
			dispatch.NewResolver,
			dispatch.NewDispatcher,
			dispatch.NewEventLogger,
			dispatch.NewDispatchService,
			historical.NewBackfillService,
			historical.NewScheduler,

			// Initialize Controllers
			connection.NewConnectionController,
			syncconfig.NewSyncConfigController,
			dispatch.NewDispatchController,
			historical.NewBackfillController,

			// Initialize API Routes
			AsRoute(connection.NewConnectionApi),
			AsRoute(syncconfig.NewSyncConfigApi),
			AsRoute(dispatch.NewDispatchApi),
			AsRoute(historical.NewBackfillApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,

			func(lc fx.Lifecycle, scheduler historical.Scheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return scheduler.Initialize(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return scheduler.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
