package approval

import (
	"context"

	"go-procure/internal/config"

	"go.uber.org/zap"
)

// GateEvaluator answers "may this actor act on this document right now".
// It never writes; decisions re-check the gate at write time.
type GateEvaluator interface {
	CanAct(ctx context.Context, actor Actor, documentID string) (bool, error)
	Evaluate(ctx context.Context, actor Actor, documentID string) (*GateResult, error)
}

// GateResult carries the full evaluation so callers can act on the rung that
// granted access without recomputing it.
type GateResult struct {
	Allowed bool
	Admin   bool
	Halted  bool
	Doc     *DocumentRef
	Chain   []StepRef
	// Step is the next unsatisfied rung, nil once the chain is satisfied.
	Step *StepRef
}

type GateEvaluatorImpl struct {
	Docs     DocumentStore
	Parents  ParentRegistry
	Resolver ChainResolver
	Ledger   LedgerRepository
	Config   *config.Config
	Logger   *zap.Logger
}

func NewGateEvaluator(
	docs DocumentStore,
	parents ParentRegistry,
	resolver ChainResolver,
	ledger LedgerRepository,
	cfg *config.Config,
	logger *zap.Logger,
) GateEvaluator {
	return &GateEvaluatorImpl{
		Docs:     docs,
		Parents:  parents,
		Resolver: resolver,
		Ledger:   ledger,
		Config:   cfg,
		Logger:   logger,
	}
}

func (g *GateEvaluatorImpl) CanAct(ctx context.Context, actor Actor, documentID string) (bool, error) {
	res, err := g.Evaluate(ctx, actor, documentID)
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}

// Evaluate walks the gate checks in order. Every ambiguous situation denies:
// missing parent, missing requirement, empty chain, halted chain, satisfied
// chain, deleted role. Only a missing document is an error.
func (g *GateEvaluatorImpl) Evaluate(ctx context.Context, actor Actor, documentID string) (*GateResult, error) {
	doc, err := g.Docs.FindRef(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	res := &GateResult{Doc: doc}

	if actor.HasRole(g.Config.AdminRole) {
		res.Allowed = true
		res.Admin = true
		return res, nil
	}

	parent, ok := g.Parents[doc.Kind]
	if !ok {
		return res, nil
	}
	workTypeID, err := parent.WorkTypeID(ctx, doc.ParentID)
	if err != nil {
		g.Logger.Warn("gate denied: parent lookup failed",
			zap.String("document_id", documentID),
			zap.Error(err))
		return res, nil
	}
	amount, err := parent.Amount(ctx, doc.ParentID)
	if err != nil {
		return res, nil
	}

	chain, err := g.Resolver.ResolveChain(ctx, workTypeID, doc.DocumentTypeID, amount)
	if err != nil {
		return nil, err
	}
	if len(chain) > 0 {
		entries, err := g.Ledger.ListByDocument(ctx, documentID)
		if err != nil {
			return nil, err
		}
		chain = mergeLedgerExtras(chain, entries)
	}
	res.Chain = chain
	if len(chain) == 0 {
		return res, nil
	}

	rejected, err := g.Ledger.HasRejection(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if rejected {
		res.Halted = true
		return res, nil
	}

	approved, err := g.Ledger.ApprovedRoleIDs(ctx, documentID)
	if err != nil {
		return nil, err
	}
	step := nextRung(chain, approved)
	if step == nil {
		return res, nil
	}
	res.Step = step

	// A deleted role leaves the rung unsatisfiable for everyone but admin.
	if step.RoleName == "" {
		return res, nil
	}

	res.Allowed = actor.HasRole(step.RoleName)
	return res, nil
}

// nextRung is the first step in chain order whose role has not yet approved.
func nextRung(chain []StepRef, approvedRoleIDs map[string]bool) *StepRef {
	for i := range chain {
		if !approvedRoleIDs[chain[i].RoleID] {
			return &chain[i]
		}
	}
	return nil
}

// mergeLedgerExtras re-attaches extra rungs recorded at instantiation time to
// a freshly resolved chain. The requirement's own steps stay live (edits and
// deletions take effect on every evaluation), but extras exist only in the
// ledger and would vanish on re-resolution without this. An empty resolved
// chain stays empty; it means the requirement no longer requires approval.
func mergeLedgerExtras(chain []StepRef, entries []LedgerEntry) []StepRef {
	if len(chain) == 0 {
		return chain
	}
	onChain := make(map[string]bool, len(chain))
	for _, s := range chain {
		onChain[s.RoleID] = true
	}
	for _, e := range entries {
		if !e.IsExtra || onChain[e.RoleID] {
			continue
		}
		chain = append(chain, StepRef{
			Level:         e.Level,
			SequenceOrder: e.SequenceOrder,
			RoleID:        e.RoleID,
			RoleName:      e.RoleName,
			IsExtra:       true,
		})
		onChain[e.RoleID] = true
	}
	return chain
}
