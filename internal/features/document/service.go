package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/config"
	"go-procure/internal/features/approval"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/worktype"
	"go-procure/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RegisterInput is everything needed to attach one document to a parent.
// ExtraRoles appends additional approval rungs after the work type's
// configured chain for this one document instance.
type RegisterInput struct {
	Kind           common_models.DocumentKind
	ParentID       string
	DocumentTypeID string
	FileName       string
	Data           []byte
	IsGenerated    bool
	UploadedBy     string
	ExtraRoles     []string
}

type DocumentService interface {
	Register(ctx context.Context, in RegisterInput) (*DocumentInstance, error)
	// Replace marks the old instance replaced and registers a fresh one with
	// a newly instantiated chain. This is also the recovery path after a
	// rejection.
	Replace(ctx context.Context, documentID string, in RegisterInput) (*DocumentInstance, error)
	GetDocument(ctx context.Context, id string) (*DocumentInstance, error)
	ListByParent(ctx context.Context, kind common_models.DocumentKind, parentID string) ([]DocumentInstance, error)
}

type DocumentServiceImpl struct {
	Repo            DocumentRepository
	WorkTypeService worktype.WorkTypeService
	Approvals       approval.ApprovalService
	Parents         approval.ParentRegistry
	AuditService    audit.AuditService
	Config          *config.Config
	Logger          *zap.Logger
}

func NewDocumentService(
	repo DocumentRepository,
	workTypeService worktype.WorkTypeService,
	approvals approval.ApprovalService,
	parents approval.ParentRegistry,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) DocumentService {
	return &DocumentServiceImpl{
		Repo:            repo,
		WorkTypeService: workTypeService,
		Approvals:       approvals,
		Parents:         parents,
		AuditService:    auditService,
		Config:          cfg,
		Logger:          logger,
	}
}

func (s *DocumentServiceImpl) Register(ctx context.Context, in RegisterInput) (*DocumentInstance, error) {
	return s.register(ctx, in, "")
}

func (s *DocumentServiceImpl) Replace(ctx context.Context, documentID string, in RegisterInput) (*DocumentInstance, error) {
	old, err := s.Repo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, approval.ErrNotFound
	}
	if old.Status == common_models.DocumentStatusReplaced {
		return nil, fmt.Errorf("document %s is already replaced", documentID)
	}

	in.Kind = old.Kind
	in.ParentID = old.ParentID
	in.DocumentTypeID = old.DocumentTypeID

	if err := s.Repo.SetStatus(ctx, documentID, common_models.DocumentStatusReplaced); err != nil {
		return nil, err
	}

	fresh, err := s.register(ctx, in, documentID)
	if err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "document", documentID, map[string]common_models.Change{
		"status":      {Old: old.Status, New: common_models.DocumentStatusReplaced},
		"replaced_by": {New: fresh.ID.Hex()},
	})
	return fresh, nil
}

func (s *DocumentServiceImpl) register(ctx context.Context, in RegisterInput, replacesID string) (*DocumentInstance, error) {
	parent, ok := s.Parents[in.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown document kind %q", in.Kind)
	}
	workTypeID, err := parent.WorkTypeID(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}

	req, err := s.WorkTypeService.GetRequirement(ctx, workTypeID, in.DocumentTypeID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("document type %s is not configured for this work type", in.DocumentTypeID)
	}
	if req.IsUploadRequired && !in.IsGenerated && len(in.Data) == 0 {
		return nil, fmt.Errorf("this document type requires a file upload")
	}

	doc := &DocumentInstance{
		ID:             primitive.NewObjectID(),
		Kind:           in.Kind,
		ParentID:       in.ParentID,
		DocumentTypeID: in.DocumentTypeID,
		FileName:       in.FileName,
		IsGenerated:    in.IsGenerated,
		// The flag is copied here so later requirement edits leave this
		// instance's behavior unchanged.
		RequiresApproval: req.RequiresApproval,
		Status:           common_models.DocumentStatusUploaded,
		ReplacesID:       replacesID,
		UploadedBy:       in.UploadedBy,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if len(in.Data) > 0 {
		path, url, err := s.saveFile(doc.ID.Hex(), in.FileName, in.Data)
		if err != nil {
			return nil, err
		}
		doc.FilePath = path
		doc.FileURL = url
	}

	doc.QrText = utils.MintQrToken()
	key, err := utils.RenderQrPNG(s.Config.FSPath, doc.QrText)
	if err != nil {
		s.Logger.Warn("failed to render QR image", zap.String("document_id", doc.ID.Hex()), zap.Error(err))
	} else {
		doc.QrObjectKey = key
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := parent.OnDocumentRegistered(ctx, in.ParentID); err != nil {
		s.Logger.Warn("parent status update failed", zap.String("parent_id", in.ParentID), zap.Error(err))
	}

	if doc.RequiresApproval {
		ref := &approval.DocumentRef{
			ID:               doc.ID.Hex(),
			Kind:             doc.Kind,
			ParentID:         doc.ParentID,
			DocumentTypeID:   doc.DocumentTypeID,
			Status:           doc.Status,
			RequiresApproval: true,
		}
		rungs, err := s.Approvals.InstantiateForDocument(ctx, ref, in.ExtraRoles)
		if err != nil {
			return nil, err
		}
		if rungs > 0 {
			if err := s.Repo.SetStatus(ctx, doc.ID.Hex(), common_models.DocumentStatusPending); err != nil {
				return nil, err
			}
			doc.Status = common_models.DocumentStatusPending
		}
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "document", doc.ID.Hex(), map[string]common_models.Change{
		"kind":             {New: doc.Kind},
		"parent_id":        {New: doc.ParentID},
		"document_type_id": {New: doc.DocumentTypeID},
	})

	return doc, nil
}

func (s *DocumentServiceImpl) GetDocument(ctx context.Context, id string) (*DocumentInstance, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *DocumentServiceImpl) ListByParent(ctx context.Context, kind common_models.DocumentKind, parentID string) ([]DocumentInstance, error) {
	return s.Repo.ListByParent(ctx, kind, parentID)
}

func (s *DocumentServiceImpl) saveFile(docID, fileName string, data []byte) (string, string, error) {
	dir := filepath.Join(s.Config.FSPath, "documents")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	name := docID + "_" + utils.Slugify(strings.TrimSuffix(base, ext)) + ext
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}
	return path, s.Config.FSURL + "/documents/" + name, nil
}
