package approval

import (
	"context"
	"fmt"
	"sort"

	"go-procure/internal/config"
	"go-procure/internal/features/role"
	"go-procure/internal/features/worktype"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"
)

// ChainResolver turns a work type's document requirement into the concrete,
// ordered chain that applies to one document at one amount.
type ChainResolver interface {
	// ResolveChain returns the steps sorted by (Level, SequenceOrder). The
	// result is empty when the requirement is missing or does not require
	// approval. Rungs for the escalation role are dropped when the amount is
	// at or below the escalation threshold.
	ResolveChain(ctx context.Context, workTypeID, documentTypeID string, amount float64) ([]StepRef, error)

	// InstantiateChain copies the resolved chain into pending ledger entries,
	// with extraRoles appended as additional rungs after the configured steps.
	// A second call for the same document fails with
	// ErrChainAlreadyInstantiated and leaves the ledger untouched.
	InstantiateChain(ctx context.Context, documentID, workTypeID, documentTypeID string, amount float64, extraRoles []string) ([]StepRef, error)
}

type ChainResolverImpl struct {
	WorkTypeService worktype.WorkTypeService
	RoleService     role.RoleService
	Ledger          LedgerRepository
	Config          *config.Config
	Logger          *zap.Logger
}

func NewChainResolver(
	workTypeService worktype.WorkTypeService,
	roleService role.RoleService,
	ledger LedgerRepository,
	cfg *config.Config,
	logger *zap.Logger,
) ChainResolver {
	return &ChainResolverImpl{
		WorkTypeService: workTypeService,
		RoleService:     roleService,
		Ledger:          ledger,
		Config:          cfg,
		Logger:          logger,
	}
}

func (r *ChainResolverImpl) ResolveChain(ctx context.Context, workTypeID, documentTypeID string, amount float64) ([]StepRef, error) {
	req, err := r.WorkTypeService.GetRequirement(ctx, workTypeID, documentTypeID)
	if err != nil {
		return nil, err
	}
	if req == nil || !req.RequiresApproval {
		return nil, nil
	}

	defs := append([]worktype.ApprovalStepDef(nil), req.Steps...)
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Level != defs[j].Level {
			return defs[i].Level < defs[j].Level
		}
		return defs[i].SequenceOrder < defs[j].SequenceOrder
	})

	steps := make([]StepRef, 0, len(defs))
	for _, def := range defs {
		name, err := r.RoleService.ResolveName(ctx, def.RoleID)
		if err != nil {
			return nil, err
		}
		// Escalation-only rungs apply above the threshold only.
		if name == r.Config.EscalationRole && amount <= r.Config.EscalationThreshold {
			continue
		}
		steps = append(steps, StepRef{
			Level:         def.Level,
			SequenceOrder: def.SequenceOrder,
			RoleID:        def.RoleID,
			RoleName:      name,
		})
	}

	if req.EscalationScript != "" {
		extras, err := r.runEscalationScript(req.EscalationScript, amount)
		if err != nil {
			r.Logger.Warn("escalation script failed, chain unchanged",
				zap.String("work_type_id", workTypeID),
				zap.Error(err))
		} else if len(extras) > 0 {
			steps = appendExtraRoles(ctx, r.RoleService, steps, extras)
		}
	}

	return steps, nil
}

func (r *ChainResolverImpl) InstantiateChain(ctx context.Context, documentID, workTypeID, documentTypeID string, amount float64, extraRoles []string) ([]StepRef, error) {
	steps, err := r.ResolveChain(ctx, workTypeID, documentTypeID, amount)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, nil
	}
	if len(extraRoles) > 0 {
		steps = appendExtraRoles(ctx, r.RoleService, steps, extraRoles)
	}

	entries := make([]LedgerEntry, 0, len(steps))
	for _, step := range steps {
		entries = append(entries, LedgerEntry{
			Level:         step.Level,
			SequenceOrder: step.SequenceOrder,
			RoleID:        step.RoleID,
			RoleName:      step.RoleName,
			IsExtra:       step.IsExtra,
		})
	}
	if err := r.Ledger.InsertChain(ctx, documentID, entries); err != nil {
		return nil, err
	}

	r.Logger.Info("approval chain instantiated",
		zap.String("document_id", documentID),
		zap.Int("steps", len(steps)))
	return steps, nil
}

// runEscalationScript evaluates the requirement's tengo script with `amount`
// bound and reads the `extra_roles` array of role names it may produce.
func (r *ChainResolverImpl) runEscalationScript(src string, amount float64) ([]string, error) {
	script := tengo.NewScript([]byte(src))

	script.Add("amount", amount)
	script.Add("extra_roles", []interface{}{})

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile escalation script: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("failed to run escalation script: %w", err)
	}

	raw := compiled.Get("extra_roles").Array()
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if name, ok := v.(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// appendExtraRoles tacks script- or caller-provided roles onto the end of the
// chain, continuing SequenceOrder within a level past the last existing rung.
// Unknown role names and roles already on the chain are skipped. Appended
// rungs carry IsExtra so later chain resolutions can tell them apart from the
// requirement's own steps.
func appendExtraRoles(ctx context.Context, roleService role.RoleService, steps []StepRef, names []string) []StepRef {
	level, seq := 1, 0
	onChain := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.Level > level || (s.Level == level && s.SequenceOrder > seq) {
			level, seq = s.Level, s.SequenceOrder
		}
		onChain[s.RoleID] = true
	}

	for _, name := range names {
		r, err := roleService.GetRoleByName(ctx, name)
		if err != nil || r == nil {
			continue
		}
		id := r.ID.Hex()
		if onChain[id] {
			continue
		}
		seq++
		steps = append(steps, StepRef{
			Level:         level,
			SequenceOrder: seq,
			RoleID:        id,
			RoleName:      name,
			IsExtra:       true,
		})
		onChain[id] = true
	}
	return steps
}
