package main

import (
	"context"
	"fmt"
	common_api "go-procure/internal/common/api"
	common_models "go-procure/internal/common/models"
	"go-procure/internal/config"
	"go-procure/internal/database"
	"go-procure/internal/features/approval"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/auth"
	"go-procure/internal/features/doctype"
	"go-procure/internal/features/document"
	"go-procure/internal/features/notification"
	"go-procure/internal/features/procurement"
	"go-procure/internal/features/reminder"
	"go-procure/internal/features/report"
	"go-procure/internal/features/role"
	sync_feature "go-procure/internal/features/sync"
	"go-procure/internal/features/system"
	"go-procure/internal/features/user"
	"go-procure/internal/features/workorder"
	"go-procure/internal/features/worktype"
	"go-procure/internal/logger"
	"go-procure/internal/middleware"
	"go-procure/pkg/utils"
	"log"
	"time"

	_ "go-procure/docs" // Import swagger docs

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

	// Use custom CORS middleware
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

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, ledgerRepo approval.LedgerRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := ledgerRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure approval ledger indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

// NewParentRegistry binds one aggregate per document kind. The approval
// engine stays generic over the kind; this is the only place the binding
// is spelled out.
func NewParentRegistry(
	workOrderService workorder.WorkOrderService,
	procurementService procurement.ProcurementService,
) approval.ParentRegistry {
	return approval.ParentRegistry{
		common_models.KindWorkOrder:   workOrderService,
		common_models.KindProcurement: procurementService,
	}
}

// @title           Procurement Approval API
// @version         1.0
// @description     Staged document approval workflow for work orders and procurements.

// @host            localhost:8080
// @BasePath        /
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

			// Initialize Repository
			audit.NewAuditRepository,
			role.NewRoleRepository,
			user.NewUserRepository,
			doctype.NewDocumentTypeRepository,
			worktype.NewWorkTypeRepository,
			workorder.NewWorkOrderRepository,
			procurement.NewProcurementRepository,
			document.NewDocumentRepository,
			approval.NewLedgerRepository,
			notification.NewNotificationRepository,
			sync_feature.NewSyncRepository,
			report.NewReportRepository,

			audit.NewAuditService,
			auth.NewAuthService,
			role.NewRoleService,
			user.NewUserService,
			doctype.NewDocumentTypeService,
			worktype.NewWorkTypeService,
			workorder.NewWorkOrderService,
			procurement.NewProcurementService,
			notification.NewNotificationService,
			approval.NewChainResolver,
			approval.NewGateEvaluator,
			approval.NewApprovalService,
			approval.NewQrResolver,
			document.NewDocumentService,
			sync_feature.NewSyncService,
			report.NewReportService,
			reminder.NewReminderService,

			// Interface Adapters to satisfy the approval engine's ports
			document.NewStoreAdapter,
			NewParentRegistry,

			// Initialize Controller
			auth.NewAuthController,
			role.NewRoleController,
			user.NewUserController,
			audit.NewAuditController,
			doctype.NewDocumentTypeController,
			worktype.NewWorkTypeController,
			workorder.NewWorkOrderController,
			procurement.NewProcurementController,
			document.NewDocumentController,
			approval.NewApprovalController,
			notification.NewNotificationController,
			sync_feature.NewSyncController,
			report.NewReportController,
			reminder.NewReminderController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(doctype.NewDocumentTypeApi),
			AsRoute(worktype.NewWorkTypeApi),
			AsRoute(workorder.NewWorkOrderApi),
			AsRoute(procurement.NewProcurementApi),
			AsRoute(document.NewDocumentApi),
			AsRoute(approval.NewApprovalApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(sync_feature.NewSyncApi),
			AsRoute(report.NewReportApi),
			AsRoute(reminder.NewReminderApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
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
			func(lc fx.Lifecycle, reminderService reminder.ReminderService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return reminderService.InitializeScheduler()
					},
					OnStop: func(ctx context.Context) error {
						return reminderService.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
