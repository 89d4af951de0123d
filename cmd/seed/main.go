package main

import (
	"context"
	"log"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/config"
	"go-procure/internal/database"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/doctype"
	"go-procure/internal/features/role"
	"go-procure/internal/features/user"
	"go-procure/internal/features/worktype"
	"go-procure/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type seedUser struct {
	Username string
	Password string
	Email    string
	Roles    []string
}

var seedRoles = []role.Role{
	{Name: "Admin", Description: "Full access, decides any pending rung", IsSystem: true},
	{Name: "Site Engineer", Description: "First line review on site documents"},
	{Name: "Project Manager", Description: "Project level approval"},
	{Name: "Operations Director", Description: "Operations sign-off"},
	{Name: "Vice President", Description: "High value escalation rung"},
	{Name: "Finance Director", Description: "Ad hoc financial review"},
}

var seedUsers = []seedUser{
	{Username: "admin", Password: "admin123", Email: "admin@example.com", Roles: []string{"Admin"}},
	{Username: "engineer", Password: "engineer123", Email: "engineer@example.com", Roles: []string{"Site Engineer"}},
	{Username: "pm", Password: "pm123", Email: "pm@example.com", Roles: []string{"Project Manager"}},
	{Username: "director", Password: "director123", Email: "director@example.com", Roles: []string{"Operations Director"}},
	{Username: "vp", Password: "vp123", Email: "vp@example.com", Roles: []string{"Vice President"}},
}

var seedDocTypes = []doctype.DocumentType{
	{Name: "Service Order", Description: "Generated order document handed to the vendor", IsSystem: true},
	{Name: "Risk Assessment", Description: "Uploaded safety review"},
	{Name: "Completion Certificate", Description: "Signed completion evidence"},
	{Name: "Purchase Order", Description: "Generated purchase document", IsSystem: true},
}

// Seed runs the database seeding
func Seed(
	lc fx.Lifecycle,
	roleService role.RoleService,
	userService user.UserService,
	docTypeService doctype.DocumentTypeService,
	workTypeService worktype.WorkTypeService,
	auditService audit.AuditService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				// 1. Roles
				roleIDs := make(map[string]string)
				for _, r := range seedRoles {
					existing, err := roleService.GetRoleByName(ctx, r.Name)
					if err == nil {
						logger.Info("Role exists, skipping", zap.String("role", r.Name))
						roleIDs[r.Name] = existing.ID.Hex()
						continue
					}
					created, err := roleService.CreateRole(ctx, &r)
					if err != nil {
						logger.Error("Failed to create role", zap.String("role", r.Name), zap.Error(err))
						continue
					}
					logger.Info("Role created", zap.String("role", r.Name))
					roleIDs[r.Name] = created.ID.Hex()
				}

				// 2. Users
				for _, u := range seedUsers {
					newUser := common_models.User{
						Username: u.Username,
						Email:    u.Email,
						Status:   "active",
						Roles:    u.Roles,
					}
					if _, err := userService.CreateUser(ctx, &newUser, u.Password); err != nil {
						logger.Warn("Failed to create user (may exist)", zap.String("username", u.Username), zap.Error(err))
						continue
					}
					logger.Info("User created", zap.String("username", u.Username))
				}

				// 3. Document types
				docTypeIDs := make(map[string]string)
				existingTypes, err := docTypeService.List(ctx)
				if err != nil {
					logger.Fatal("Failed to list document types", zap.Error(err))
				}
				for _, dt := range existingTypes {
					docTypeIDs[dt.Name] = dt.ID.Hex()
				}
				for _, dt := range seedDocTypes {
					if _, ok := docTypeIDs[dt.Name]; ok {
						logger.Info("Document type exists, skipping", zap.String("document_type", dt.Name))
						continue
					}
					created, err := docTypeService.Create(ctx, &dt)
					if err != nil {
						logger.Error("Failed to create document type", zap.String("document_type", dt.Name), zap.Error(err))
						continue
					}
					logger.Info("Document type created", zap.String("document_type", dt.Name))
					docTypeIDs[dt.Name] = created.ID.Hex()
				}

				// 4. Work types with approval requirements
				seedWorkType(ctx, logger, workTypeService, roleIDs, docTypeIDs,
					&worktype.WorkType{Name: "Civil Construction", Kind: common_models.KindWorkOrder},
					"Service Order")
				seedWorkType(ctx, logger, workTypeService, roleIDs, docTypeIDs,
					&worktype.WorkType{Name: "Material Purchase", Kind: common_models.KindProcurement},
					"Purchase Order")

				_ = auditService.LogChange(ctx, common_models.AuditActionSeed, "seed", "", map[string]common_models.Change{
					"roles":          {New: len(seedRoles)},
					"users":          {New: len(seedUsers)},
					"document_types": {New: len(seedDocTypes)},
				})

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

// seedWorkType creates a work type and a four rung requirement for the given
// document type. The Vice President rung only survives chain resolution for
// amounts over the escalation threshold; the script adds a Finance Director
// rung above 100M.
func seedWorkType(
	ctx context.Context,
	logger *zap.Logger,
	workTypeService worktype.WorkTypeService,
	roleIDs map[string]string,
	docTypeIDs map[string]string,
	wt *worktype.WorkType,
	docTypeName string,
) {
	existing, err := workTypeService.ListWorkTypes(ctx)
	if err != nil {
		logger.Error("Failed to list work types", zap.Error(err))
		return
	}
	for _, w := range existing {
		if w.Name == wt.Name {
			logger.Info("Work type exists, skipping", zap.String("work_type", wt.Name))
			return
		}
	}

	created, err := workTypeService.CreateWorkType(ctx, wt)
	if err != nil {
		logger.Error("Failed to create work type", zap.String("work_type", wt.Name), zap.Error(err))
		return
	}
	logger.Info("Work type created", zap.String("work_type", wt.Name))

	docTypeID, ok := docTypeIDs[docTypeName]
	if !ok {
		logger.Warn("Document type missing, skipping requirement", zap.String("document_type", docTypeName))
		return
	}

	req := &worktype.DocumentRequirement{
		WorkTypeID:       created.ID.Hex(),
		DocumentTypeID:   docTypeID,
		IsMandatory:      true,
		IsGenerated:      true,
		RequiresApproval: true,
		Sequence:         1,
		Steps: []worktype.ApprovalStepDef{
			{Level: 1, SequenceOrder: 1, RoleID: roleIDs["Site Engineer"]},
			{Level: 2, SequenceOrder: 1, RoleID: roleIDs["Project Manager"]},
			{Level: 3, SequenceOrder: 1, RoleID: roleIDs["Operations Director"]},
			{Level: 4, SequenceOrder: 1, RoleID: roleIDs["Vice President"]},
		},
		EscalationScript: `if amount > 100000000 { extra_roles = ["Finance Director"] }`,
	}
	if _, err := workTypeService.CreateRequirement(ctx, req); err != nil {
		logger.Error("Failed to create requirement", zap.String("work_type", wt.Name), zap.Error(err))
		return
	}
	logger.Info("Requirement created", zap.String("work_type", wt.Name), zap.String("document_type", docTypeName))
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			audit.NewAuditRepository,
			audit.NewAuditService,
			role.NewRoleRepository,
			role.NewRoleService,
			user.NewUserRepository,
			user.NewUserService,
			doctype.NewDocumentTypeRepository,
			doctype.NewDocumentTypeService,
			worktype.NewWorkTypeRepository,
			worktype.NewWorkTypeService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
