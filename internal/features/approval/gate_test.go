package approval

import (
	"context"
	"errors"
	"testing"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/worktype"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type gateFixture struct {
	env   *testEnv
	roleA string
	roleB string
	roleC string
}

// newGateFixture wires a pending work order document behind a three rung
// chain: Site Engineer, then Project Manager, then Operations Director.
func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	f := &gateFixture{
		roleA: primitive.NewObjectID().Hex(),
		roleB: primitive.NewObjectID().Hex(),
		roleC: primitive.NewObjectID().Hex(),
	}
	f.env = newTestEnv(map[string]string{
		f.roleA: "Site Engineer",
		f.roleB: "Project Manager",
		f.roleC: "Operations Director",
	})

	f.env.workTypes.add(&worktype.DocumentRequirement{
		WorkTypeID:       "wt1",
		DocumentTypeID:   "dt1",
		RequiresApproval: true,
		Steps: []worktype.ApprovalStepDef{
			{Level: 1, SequenceOrder: 1, RoleID: f.roleA},
			{Level: 2, SequenceOrder: 1, RoleID: f.roleB},
			{Level: 3, SequenceOrder: 1, RoleID: f.roleC},
		},
	})
	f.env.parent.add("parent1", "wt1", 1000)
	f.env.docs.add(&DocumentRef{
		ID:               "doc1",
		Kind:             common_models.KindWorkOrder,
		ParentID:         "parent1",
		DocumentTypeID:   "dt1",
		Status:           common_models.DocumentStatusPending,
		RequiresApproval: true,
	}, "qr-doc1")

	if _, err := f.env.resolver.InstantiateChain(context.Background(), "doc1", "wt1", "dt1", 1000, nil); err != nil {
		t.Fatalf("InstantiateChain() error = %v", err)
	}
	return f
}

func (f *gateFixture) approveAs(t *testing.T, roleID string) {
	t.Helper()
	if _, err := f.env.ledger.DecideForRole(context.Background(), "doc1", roleID, common_models.DecisionApproved, "someone", ""); err != nil {
		t.Fatalf("DecideForRole() error = %v", err)
	}
}

func TestGateMissingDocument(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.env.gate.CanAct(context.Background(), Actor{UserID: "u1", Roles: []string{"Admin"}}, "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("CanAct() error = %v, want ErrNotFound", err)
	}
}

func TestGateAdminBypass(t *testing.T) {
	f := newGateFixture(t)

	canAct, err := f.env.gate.CanAct(context.Background(), Actor{UserID: "u1", Roles: []string{"Admin"}}, "doc1")
	if err != nil {
		t.Fatalf("CanAct() error = %v", err)
	}
	if !canAct {
		t.Error("admin denied, want bypass")
	}
}

func TestGateRungProgression(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	engineer := Actor{UserID: "u1", Roles: []string{"Site Engineer"}}
	manager := Actor{UserID: "u2", Roles: []string{"Project Manager"}}

	canAct, err := f.env.gate.CanAct(ctx, engineer, "doc1")
	if err != nil || !canAct {
		t.Fatalf("first rung: canAct = %v, err = %v, want allowed", canAct, err)
	}
	canAct, err = f.env.gate.CanAct(ctx, manager, "doc1")
	if err != nil || canAct {
		t.Fatalf("second rung before first: canAct = %v, err = %v, want denied", canAct, err)
	}

	f.approveAs(t, f.roleA)

	canAct, err = f.env.gate.CanAct(ctx, engineer, "doc1")
	if err != nil || canAct {
		t.Fatalf("first rung after approving: canAct = %v, err = %v, want denied", canAct, err)
	}
	canAct, err = f.env.gate.CanAct(ctx, manager, "doc1")
	if err != nil || !canAct {
		t.Fatalf("second rung after first: canAct = %v, err = %v, want allowed", canAct, err)
	}
}

func TestGateRoleNameExactMatch(t *testing.T) {
	f := newGateFixture(t)

	tests := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"Exact Match", []string{"Site Engineer"}, true},
		{"Different Case", []string{"site engineer"}, false},
		{"Other Role", []string{"Project Manager"}, false},
		{"No Roles", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canAct, err := f.env.gate.CanAct(context.Background(), Actor{UserID: "u1", Roles: tt.roles}, "doc1")
			if err != nil {
				t.Fatalf("CanAct() error = %v", err)
			}
			if canAct != tt.want {
				t.Errorf("canAct = %v, want %v", canAct, tt.want)
			}
		})
	}
}

func TestGateRejectionHalts(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	if _, err := f.env.ledger.DecideForRole(ctx, "doc1", f.roleA, common_models.DecisionRejected, "u1", "no"); err != nil {
		t.Fatalf("DecideForRole() error = %v", err)
	}

	for _, roles := range [][]string{
		{"Site Engineer"},
		{"Project Manager"},
		{"Operations Director"},
	} {
		canAct, err := f.env.gate.CanAct(ctx, Actor{UserID: "u9", Roles: roles}, "doc1")
		if err != nil {
			t.Fatalf("CanAct(%v) error = %v", roles, err)
		}
		if canAct {
			t.Errorf("CanAct(%v) = true on halted chain, want false", roles)
		}
	}
}

func TestGateSatisfiedChainDenies(t *testing.T) {
	f := newGateFixture(t)

	f.approveAs(t, f.roleA)
	f.approveAs(t, f.roleB)
	f.approveAs(t, f.roleC)

	canAct, err := f.env.gate.CanAct(context.Background(), Actor{UserID: "u1", Roles: []string{"Operations Director"}}, "doc1")
	if err != nil {
		t.Fatalf("CanAct() error = %v", err)
	}
	if canAct {
		t.Error("canAct = true on satisfied chain, want false")
	}
}

func TestGateDeletedRoleFailsClosed(t *testing.T) {
	f := newGateFixture(t)

	// Simulate the first rung's role being deleted after instantiation.
	delete(f.env.roles.names, f.roleA)

	canAct, err := f.env.gate.CanAct(context.Background(), Actor{UserID: "u1", Roles: []string{"Site Engineer"}}, "doc1")
	if err != nil {
		t.Fatalf("CanAct() error = %v", err)
	}
	if canAct {
		t.Error("canAct = true for deleted role, want false")
	}
}

func TestGateMissingParentFailsClosed(t *testing.T) {
	f := newGateFixture(t)

	f.env.docs.add(&DocumentRef{
		ID:             "orphan",
		Kind:           common_models.KindWorkOrder,
		ParentID:       "gone",
		DocumentTypeID: "dt1",
		Status:         common_models.DocumentStatusPending,
	}, "")

	canAct, err := f.env.gate.CanAct(context.Background(), Actor{UserID: "u1", Roles: []string{"Site Engineer"}}, "orphan")
	if err != nil {
		t.Fatalf("CanAct() error = %v", err)
	}
	if canAct {
		t.Error("canAct = true for orphaned document, want false")
	}
}

func TestGateEmptyChainDenies(t *testing.T) {
	f := newGateFixture(t)

	f.env.docs.add(&DocumentRef{
		ID:             "doc2",
		Kind:           common_models.KindWorkOrder,
		ParentID:       "parent1",
		DocumentTypeID: "unconfigured",
		Status:         common_models.DocumentStatusPending,
	}, "")

	canAct, err := f.env.gate.CanAct(context.Background(), Actor{UserID: "u1", Roles: []string{"Site Engineer"}}, "doc2")
	if err != nil {
		t.Fatalf("CanAct() error = %v", err)
	}
	if canAct {
		t.Error("canAct = true with empty chain, want false")
	}
}
