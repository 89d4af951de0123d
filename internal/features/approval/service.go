package approval

import (
	"context"
	"fmt"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/config"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/notification"

	"go.uber.org/zap"
)

type ApprovalService interface {
	// InstantiateForDocument resolves the document's chain from its parent
	// and writes the pending ledger entries. extraRoles are appended as
	// additional rungs after the configured steps. Returns the number of rungs.
	InstantiateForDocument(ctx context.Context, doc *DocumentRef, extraRoles []string) (int, error)

	Approve(ctx context.Context, actor Actor, documentID, note string) (*LedgerEntry, error)
	Reject(ctx context.Context, actor Actor, documentID, note string) (*LedgerEntry, error)
	ListLedger(ctx context.Context, documentID string) ([]LedgerEntry, error)
	ListApprovedLedger(ctx context.Context, documentID string) ([]LedgerEntry, error)
	// LastDecisionByUser returns the user's most recent decision on the
	// document, ErrNotFound when the user has never decided on it.
	LastDecisionByUser(ctx context.Context, documentID, userID string) (*LedgerEntry, error)
}

type ApprovalServiceImpl struct {
	Gate         GateEvaluator
	Resolver     ChainResolver
	Ledger       LedgerRepository
	Docs         DocumentStore
	Parents      ParentRegistry
	AuditService audit.AuditService
	Notifier     notification.NotificationService
	Config       *config.Config
	Logger       *zap.Logger
}

func NewApprovalService(
	gate GateEvaluator,
	resolver ChainResolver,
	ledger LedgerRepository,
	docs DocumentStore,
	parents ParentRegistry,
	auditService audit.AuditService,
	notifier notification.NotificationService,
	cfg *config.Config,
	logger *zap.Logger,
) ApprovalService {
	return &ApprovalServiceImpl{
		Gate:         gate,
		Resolver:     resolver,
		Ledger:       ledger,
		Docs:         docs,
		Parents:      parents,
		AuditService: auditService,
		Notifier:     notifier,
		Config:       cfg,
		Logger:       logger,
	}
}

func (s *ApprovalServiceImpl) InstantiateForDocument(ctx context.Context, doc *DocumentRef, extraRoles []string) (int, error) {
	parent, ok := s.Parents[doc.Kind]
	if !ok {
		return 0, fmt.Errorf("no parent aggregate registered for kind %q", doc.Kind)
	}
	workTypeID, err := parent.WorkTypeID(ctx, doc.ParentID)
	if err != nil {
		return 0, err
	}
	amount, err := parent.Amount(ctx, doc.ParentID)
	if err != nil {
		return 0, err
	}

	steps, err := s.Resolver.InstantiateChain(ctx, doc.ID, workTypeID, doc.DocumentTypeID, amount, extraRoles)
	if err != nil {
		return 0, err
	}

	if len(steps) > 0 && steps[0].RoleName != "" {
		_ = s.Notifier.NotifyRole(ctx, steps[0].RoleName, "approval",
			"Document awaiting approval",
			fmt.Sprintf("A document is waiting for %s approval", steps[0].RoleName),
			doc.ID)
	}
	return len(steps), nil
}

func (s *ApprovalServiceImpl) Approve(ctx context.Context, actor Actor, documentID, note string) (*LedgerEntry, error) {
	return s.decide(ctx, actor, documentID, note, common_models.DecisionApproved)
}

func (s *ApprovalServiceImpl) Reject(ctx context.Context, actor Actor, documentID, note string) (*LedgerEntry, error) {
	return s.decide(ctx, actor, documentID, note, common_models.DecisionRejected)
}

func (s *ApprovalServiceImpl) ListLedger(ctx context.Context, documentID string) ([]LedgerEntry, error) {
	return s.Ledger.ListByDocument(ctx, documentID)
}

func (s *ApprovalServiceImpl) ListApprovedLedger(ctx context.Context, documentID string) ([]LedgerEntry, error) {
	return s.Ledger.ListApproved(ctx, documentID)
}

func (s *ApprovalServiceImpl) LastDecisionByUser(ctx context.Context, documentID, userID string) (*LedgerEntry, error) {
	entry, err := s.Ledger.LastDecisionByUser(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

// decide re-checks the gate at write time, then races for the rung through
// the pending-only conditional update. Exactly one concurrent caller wins.
func (s *ApprovalServiceImpl) decide(ctx context.Context, actor Actor, documentID, note string, status common_models.DecisionStatus) (*LedgerEntry, error) {
	res, err := s.Gate.Evaluate(ctx, actor, documentID)
	if err != nil {
		return nil, err
	}

	switch res.Doc.Status {
	case common_models.DocumentStatusApproved, common_models.DocumentStatusRejected, common_models.DocumentStatusReplaced:
		return nil, ErrAlreadyDecided
	}

	if !res.Allowed {
		if res.Halted {
			return nil, ErrChainHalted
		}
		return nil, ErrNotAuthorized
	}

	var entry *LedgerEntry
	if res.Admin {
		entry, err = s.decideAsAdmin(ctx, actor, res, note, status)
	} else {
		entry, err = s.Ledger.DecideForRole(ctx, documentID, res.Step.RoleID, status, actor.UserID, note)
	}
	if err != nil {
		return nil, err
	}

	if err := s.applyDocumentTransition(ctx, res, entry, status, actor.UserID); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionApproval, "document", documentID, map[string]common_models.Change{
		"decision": {New: status},
		"role":     {New: entryRoleName(entry)},
		"note":     {New: note},
	})
	return entry, nil
}

// decideAsAdmin lets an admin stand in for whichever rung is next. With an
// empty chain there is no ledger entry to flip; the document transition alone
// records the decision.
func (s *ApprovalServiceImpl) decideAsAdmin(ctx context.Context, actor Actor, res *GateResult, note string, status common_models.DecisionStatus) (*LedgerEntry, error) {
	entries, err := s.Ledger.ListByDocument(ctx, res.Doc.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Status == common_models.DecisionPending {
			return s.Ledger.DecideForRole(ctx, res.Doc.ID, e.RoleID, status, actor.UserID, note)
		}
	}
	return nil, nil
}

// applyDocumentTransition recomputes the document status after a decision. A
// rejection halts and rejects immediately. An approval finishes the document
// only when no unsatisfied rung remains, then cascades to the parent.
func (s *ApprovalServiceImpl) applyDocumentTransition(ctx context.Context, res *GateResult, entry *LedgerEntry, status common_models.DecisionStatus, actorID string) error {
	doc := res.Doc

	if status == common_models.DecisionRejected {
		if err := s.Docs.SetDecision(ctx, doc.ID, common_models.DocumentStatusRejected, false, actorID); err != nil {
			return err
		}
		s.Logger.Info("document rejected",
			zap.String("document_id", doc.ID),
			zap.String("actor_id", actorID))
		if parent, ok := s.Parents[doc.Kind]; ok {
			_ = parent.OnDocumentDecided(ctx, doc.ParentID)
		}
		return nil
	}

	// Admin bypass skips chain resolution, so the remaining-work check reads
	// the ledger there; everyone else checks the live chain.
	if res.Admin {
		entries, err := s.Ledger.ListByDocument(ctx, doc.ID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Status == common_models.DecisionPending {
				return nil
			}
		}
	} else {
		approved, err := s.Ledger.ApprovedRoleIDs(ctx, doc.ID)
		if err != nil {
			return err
		}
		if next := nextRung(res.Chain, approved); next != nil {
			if next.RoleName != "" {
				_ = s.Notifier.NotifyRole(ctx, next.RoleName, "approval",
					"Document awaiting approval",
					fmt.Sprintf("A document is waiting for %s approval", next.RoleName),
					doc.ID)
			}
			return nil
		}
	}

	if err := s.Docs.SetDecision(ctx, doc.ID, common_models.DocumentStatusApproved, true, actorID); err != nil {
		return err
	}
	s.Logger.Info("document approved",
		zap.String("document_id", doc.ID),
		zap.String("actor_id", actorID))

	if parent, ok := s.Parents[doc.Kind]; ok {
		if err := parent.OnDocumentDecided(ctx, doc.ParentID); err != nil {
			s.Logger.Warn("parent completion check failed",
				zap.String("parent_id", doc.ParentID),
				zap.Error(err))
		}
	}
	return nil
}

func entryRoleName(entry *LedgerEntry) string {
	if entry == nil {
		return ""
	}
	return entry.RoleName
}
