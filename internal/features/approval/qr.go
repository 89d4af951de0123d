package approval

import (
	"context"

	common_models "go-procure/internal/common/models"

	"go.uber.org/zap"
)

// QrResolver answers "which gate does this QR code point at". Results are
// recomputed live from the chain definition and the ledger, never cached on
// the document.
type QrResolver interface {
	ResolveGateByQr(ctx context.Context, qrText string) (*GateInfo, error)
	ResolveGateByLedgerEntry(ctx context.Context, entryID string) (*GateInfo, error)
}

type QrResolverImpl struct {
	Docs     DocumentStore
	Parents  ParentRegistry
	Resolver ChainResolver
	Ledger   LedgerRepository
	Logger   *zap.Logger
}

func NewQrResolver(
	docs DocumentStore,
	parents ParentRegistry,
	resolver ChainResolver,
	ledger LedgerRepository,
	logger *zap.Logger,
) QrResolver {
	return &QrResolverImpl{
		Docs:     docs,
		Parents:  parents,
		Resolver: resolver,
		Ledger:   ledger,
		Logger:   logger,
	}
}

func (q *QrResolverImpl) ResolveGateByQr(ctx context.Context, qrText string) (*GateInfo, error) {
	doc, err := q.Docs.FindRefByQr(ctx, qrText)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return q.buildGateInfo(ctx, doc)
}

func (q *QrResolverImpl) ResolveGateByLedgerEntry(ctx context.Context, entryID string) (*GateInfo, error) {
	entry, err := q.Ledger.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	doc, err := q.Docs.FindRef(ctx, entry.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return q.buildGateInfo(ctx, doc)
}

// buildGateInfo distinguishes "no pending gate" (satisfied or halted chain,
// HasPendingGate=false) from a failed lookup, which surfaces as ErrNotFound
// before this point.
func (q *QrResolverImpl) buildGateInfo(ctx context.Context, doc *DocumentRef) (*GateInfo, error) {
	info := &GateInfo{
		DocumentID:     doc.ID,
		DocumentStatus: doc.Status,
		Kind:           doc.Kind,
		ParentID:       doc.ParentID,
	}

	rejected, err := q.Ledger.HasRejection(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if rejected {
		info.Halted = true
		return info, nil
	}

	parent, ok := q.Parents[doc.Kind]
	if !ok {
		return info, nil
	}
	workTypeID, err := parent.WorkTypeID(ctx, doc.ParentID)
	if err != nil {
		return info, nil
	}
	amount, err := parent.Amount(ctx, doc.ParentID)
	if err != nil {
		return info, nil
	}

	chain, err := q.Resolver.ResolveChain(ctx, workTypeID, doc.DocumentTypeID, amount)
	if err != nil {
		return nil, err
	}
	entries, err := q.Ledger.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	chain = mergeLedgerExtras(chain, entries)
	approved, err := q.Ledger.ApprovedRoleIDs(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	step := nextRung(chain, approved)
	if step == nil {
		return info, nil
	}

	info.HasPendingGate = true
	info.Level = step.Level
	info.SequenceOrder = step.SequenceOrder
	info.RoleID = step.RoleID
	info.RoleName = step.RoleName

	for _, e := range entries {
		if e.Status == common_models.DecisionPending {
			info.PendingEntries = append(info.PendingEntries, e)
		}
	}
	return info, nil
}
