package report

import (
	"context"
	"fmt"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/audit"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// RegisterFilter narrows the approval register export.
type RegisterFilter struct {
	Kind common_models.DocumentKind
	From *time.Time
	To   *time.Time
}

type ReportService interface {
	// ExportApprovalRegister renders one row per ledger entry as an xlsx
	// workbook and returns the file bytes with a suggested filename.
	ExportApprovalRegister(ctx context.Context, filter RegisterFilter) ([]byte, string, error)
}

type ReportServiceImpl struct {
	Repo         ReportRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewReportService(repo ReportRepository, auditService audit.AuditService, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		Logger:       logger,
	}
}

var registerColumns = []string{
	"Document ID", "Kind", "Parent ID", "Document Type", "Document Status",
	"Level", "Sequence", "Role", "Decision", "Approver", "Decided At", "Note",
}

func (s *ReportServiceImpl) ExportApprovalRegister(ctx context.Context, filter RegisterFilter) ([]byte, string, error) {
	entries, err := s.Repo.ListLedgerEntries(ctx, filter.From, filter.To)
	if err != nil {
		return nil, "", err
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !seen[e.DocumentID] {
			seen[e.DocumentID] = true
			ids = append(ids, e.DocumentID)
		}
	}
	docs, err := s.Repo.FindDocuments(ctx, ids)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheetName := "Approval Register"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range registerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	rowIdx := 2
	for _, e := range entries {
		doc, ok := docs[e.DocumentID]
		if filter.Kind != "" && (!ok || doc.Kind != filter.Kind) {
			continue
		}

		decidedAt := ""
		if e.DecidedAt != nil {
			decidedAt = e.DecidedAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			e.DocumentID, string(doc.Kind), doc.ParentID, doc.DocumentTypeID, string(doc.Status),
			e.Level, e.SequenceOrder, e.RoleName, string(e.Status), e.ApproverID, decidedAt, e.Note,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			f.SetCellValue(sheetName, cell, v)
		}
		rowIdx++
	}

	for i := range registerColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionReport, "approval_register", "", map[string]common_models.Change{
		"rows": {New: rowIdx - 2},
		"kind": {New: filter.Kind},
	})

	filename := fmt.Sprintf("approval_register_%s.xlsx", time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}
