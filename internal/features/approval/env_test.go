package approval

import (
	common_models "go-procure/internal/common/models"
	"go-procure/internal/config"

	"go.uber.org/zap"
)

// testEnv wires the whole engine against in-memory fakes.
type testEnv struct {
	ledger    *fakeLedger
	docs      *fakeDocs
	parent    *fakeParent
	workTypes *fakeWorkTypes
	roles     *fakeRoles
	notifier  *fakeNotifier
	cfg       *config.Config

	resolver ChainResolver
	gate     GateEvaluator
	service  ApprovalService
	qr       QrResolver
}

func newTestEnv(roleNames map[string]string) *testEnv {
	env := &testEnv{
		ledger:    newFakeLedger(),
		docs:      newFakeDocs(),
		parent:    newFakeParent(),
		workTypes: newFakeWorkTypes(),
		roles:     newFakeRoles(roleNames),
		notifier:  &fakeNotifier{},
		cfg: &config.Config{
			EscalationThreshold: 300000000,
			EscalationRole:      "Vice President",
			AdminRole:           "Admin",
		},
	}

	logger := zap.NewNop()
	parents := ParentRegistry{
		common_models.KindWorkOrder:   env.parent,
		common_models.KindProcurement: env.parent,
	}

	env.resolver = NewChainResolver(env.workTypes, env.roles, env.ledger, env.cfg, logger)
	env.gate = NewGateEvaluator(env.docs, parents, env.resolver, env.ledger, env.cfg, logger)
	env.service = NewApprovalService(env.gate, env.resolver, env.ledger, env.docs, parents,
		fakeAudit{}, env.notifier, env.cfg, logger)
	env.qr = NewQrResolver(env.docs, parents, env.resolver, env.ledger, logger)
	return env
}
