package sync

import (
	"context"
	"fmt"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/config"
	"go-procure/internal/connectors"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/procurement"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type SyncService interface {
	// RunVendorSync pulls the vendor table from the external ERP and upserts
	// every row into local vendor master data.
	RunVendorSync(ctx context.Context, triggeredBy string) (*SyncRun, error)
	ListRuns(ctx context.Context, limit int64) ([]SyncRun, error)
}

type SyncServiceImpl struct {
	Repo               SyncRepository
	ProcurementService procurement.ProcurementService
	AuditService       audit.AuditService
	Config             *config.Config
	Logger             *zap.Logger
}

func NewSyncService(
	repo SyncRepository,
	procurementService procurement.ProcurementService,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) SyncService {
	return &SyncServiceImpl{
		Repo:               repo,
		ProcurementService: procurementService,
		AuditService:       auditService,
		Config:             cfg,
		Logger:             logger,
	}
}

func (s *SyncServiceImpl) RunVendorSync(ctx context.Context, triggeredBy string) (*SyncRun, error) {
	run := &SyncRun{
		ID:          primitive.NewObjectID(),
		Source:      s.Config.ERPSyncDriver,
		Table:       s.Config.ERPSyncTable,
		Status:      "success",
		StartedAt:   time.Now(),
		TriggeredBy: triggeredBy,
	}

	rows, err := s.fetchRows(ctx)
	if err != nil {
		return s.finishRun(ctx, run, 0, 0, err)
	}

	upserted := 0
	for _, row := range rows {
		vendor, err := rowToVendor(row)
		if err != nil {
			s.Logger.Warn("skipping malformed vendor row", zap.Error(err))
			continue
		}
		if err := s.ProcurementService.UpsertVendor(ctx, vendor); err != nil {
			return s.finishRun(ctx, run, len(rows), upserted, err)
		}
		upserted++
	}

	return s.finishRun(ctx, run, len(rows), upserted, nil)
}

func (s *SyncServiceImpl) ListRuns(ctx context.Context, limit int64) ([]SyncRun, error) {
	return s.Repo.ListRuns(ctx, limit)
}

func (s *SyncServiceImpl) fetchRows(ctx context.Context) ([]map[string]interface{}, error) {
	connector := connectors.NewExternalDBConnector(s.Config.ERPSyncDriver, s.Config.ERPSyncDSN)
	if err := connector.Connect(ctx); err != nil {
		return nil, err
	}
	defer connector.Disconnect()

	return connector.QueryTable(ctx, s.Config.ERPSyncTable)
}

func (s *SyncServiceImpl) finishRun(ctx context.Context, run *SyncRun, read, upserted int, runErr error) (*SyncRun, error) {
	run.RowsRead = read
	run.RowsUpserted = upserted
	run.FinishedAt = time.Now()
	if runErr != nil {
		run.Status = "failed"
		run.Error = runErr.Error()
	}

	if err := s.Repo.CreateRun(ctx, run); err != nil {
		s.Logger.Error("failed to record sync run", zap.Error(err))
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSync, "vendor_sync", run.ID.Hex(), map[string]common_models.Change{
		"status":   {New: run.Status},
		"upserted": {New: run.RowsUpserted},
	})

	if runErr != nil {
		return run, runErr
	}
	s.Logger.Info("vendor sync finished",
		zap.Int("rows_read", read),
		zap.Int("rows_upserted", upserted))
	return run, nil
}

// rowToVendor maps an ERP row onto the local vendor model. The external id
// column is mandatory; everything else is best effort.
func rowToVendor(row map[string]interface{}) (*procurement.Vendor, error) {
	externalID := stringField(row, "id", "vendor_id", "external_id")
	if externalID == "" {
		return nil, fmt.Errorf("vendor row has no id column")
	}
	name := stringField(row, "name", "vendor_name")
	if name == "" {
		return nil, fmt.Errorf("vendor %s has no name", externalID)
	}

	return &procurement.Vendor{
		ExternalID: externalID,
		Name:       name,
		Email:      stringField(row, "email"),
		Phone:      stringField(row, "phone"),
		Address:    stringField(row, "address"),
		IsActive:   boolField(row, "is_active", true),
	}, nil
}

func stringField(row map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := row[key]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

func boolField(row map[string]interface{}, key string, fallback bool) bool {
	v, ok := row[key]
	if !ok || v == nil {
		return fallback
	}
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case string:
		return b == "true" || b == "1"
	default:
		return fallback
	}
}
