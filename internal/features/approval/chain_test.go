package approval

import (
	"context"
	"errors"
	"testing"

	"go-procure/internal/features/worktype"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveChainOrdering(t *testing.T) {
	roleA := primitive.NewObjectID().Hex()
	roleB := primitive.NewObjectID().Hex()
	roleC := primitive.NewObjectID().Hex()

	env := newTestEnv(map[string]string{
		roleA: "Site Engineer",
		roleB: "Project Manager",
		roleC: "Operations Director",
	})
	env.workTypes.add(&worktype.DocumentRequirement{
		WorkTypeID:       "wt1",
		DocumentTypeID:   "dt1",
		RequiresApproval: true,
		Steps: []worktype.ApprovalStepDef{
			{Level: 2, SequenceOrder: 1, RoleID: roleC},
			{Level: 1, SequenceOrder: 2, RoleID: roleB},
			{Level: 1, SequenceOrder: 1, RoleID: roleA},
		},
	})

	chain, err := env.resolver.ResolveChain(context.Background(), "wt1", "dt1", 1000)
	if err != nil {
		t.Fatalf("ResolveChain() error = %v", err)
	}

	want := []string{"Site Engineer", "Project Manager", "Operations Director"}
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i, name := range want {
		if chain[i].RoleName != name {
			t.Errorf("chain[%d].RoleName = %s, want %s", i, chain[i].RoleName, name)
		}
	}
}

func TestResolveChainEmptyCases(t *testing.T) {
	roleA := primitive.NewObjectID().Hex()
	env := newTestEnv(map[string]string{roleA: "Site Engineer"})

	env.workTypes.add(&worktype.DocumentRequirement{
		WorkTypeID:       "wt1",
		DocumentTypeID:   "no-approval",
		RequiresApproval: false,
		Steps:            []worktype.ApprovalStepDef{{Level: 1, SequenceOrder: 1, RoleID: roleA}},
	})

	tests := []struct {
		name           string
		workTypeID     string
		documentTypeID string
	}{
		{"Missing Requirement", "wt1", "unknown"},
		{"Approval Not Required", "wt1", "no-approval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := env.resolver.ResolveChain(context.Background(), tt.workTypeID, tt.documentTypeID, 1000)
			if err != nil {
				t.Fatalf("ResolveChain() error = %v", err)
			}
			if len(chain) != 0 {
				t.Errorf("chain length = %d, want 0", len(chain))
			}
		})
	}
}

func TestResolveChainEscalationThreshold(t *testing.T) {
	roleA := primitive.NewObjectID().Hex()
	roleB := primitive.NewObjectID().Hex()
	roleVP := primitive.NewObjectID().Hex()

	env := newTestEnv(map[string]string{
		roleA:  "Project Manager",
		roleB:  "Operations Director",
		roleVP: "Vice President",
	})
	env.workTypes.add(&worktype.DocumentRequirement{
		WorkTypeID:       "wt1",
		DocumentTypeID:   "dt1",
		RequiresApproval: true,
		Steps: []worktype.ApprovalStepDef{
			{Level: 1, SequenceOrder: 1, RoleID: roleA},
			{Level: 2, SequenceOrder: 1, RoleID: roleVP},
			{Level: 3, SequenceOrder: 1, RoleID: roleB},
		},
	})

	tests := []struct {
		name   string
		amount float64
		want   []string
	}{
		{"Below Threshold", 250000000, []string{"Project Manager", "Operations Director"}},
		{"At Threshold", 300000000, []string{"Project Manager", "Operations Director"}},
		{"Above Threshold", 300000001, []string{"Project Manager", "Vice President", "Operations Director"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := env.resolver.ResolveChain(context.Background(), "wt1", "dt1", tt.amount)
			if err != nil {
				t.Fatalf("ResolveChain() error = %v", err)
			}
			if len(chain) != len(tt.want) {
				t.Fatalf("chain length = %d, want %d", len(chain), len(tt.want))
			}
			for i, name := range tt.want {
				if chain[i].RoleName != name {
					t.Errorf("chain[%d].RoleName = %s, want %s", i, chain[i].RoleName, name)
				}
			}
		})
	}
}

func TestResolveChainEscalationScript(t *testing.T) {
	roleA := primitive.NewObjectID().Hex()
	roleFD := primitive.NewObjectID().Hex()

	env := newTestEnv(map[string]string{
		roleA:  "Project Manager",
		roleFD: "Finance Director",
	})
	env.workTypes.add(&worktype.DocumentRequirement{
		WorkTypeID:       "wt1",
		DocumentTypeID:   "dt1",
		RequiresApproval: true,
		Steps: []worktype.ApprovalStepDef{
			{Level: 1, SequenceOrder: 1, RoleID: roleA},
		},
		EscalationScript: `if amount > 100000000 { extra_roles = ["Finance Director"] }`,
	})

	chain, err := env.resolver.ResolveChain(context.Background(), "wt1", "dt1", 200000000)
	if err != nil {
		t.Fatalf("ResolveChain() error = %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(chain))
	}
	if chain[1].RoleName != "Finance Director" {
		t.Errorf("chain[1].RoleName = %s, want Finance Director", chain[1].RoleName)
	}
	if chain[1].SequenceOrder <= chain[0].SequenceOrder && chain[1].Level <= chain[0].Level {
		t.Errorf("extra rung does not continue the ordering: %+v after %+v", chain[1], chain[0])
	}

	// Below the script's own cutoff nothing is appended.
	chain, err = env.resolver.ResolveChain(context.Background(), "wt1", "dt1", 50000000)
	if err != nil {
		t.Fatalf("ResolveChain() error = %v", err)
	}
	if len(chain) != 1 {
		t.Errorf("chain length = %d, want 1", len(chain))
	}
}

func TestInstantiateChainIdempotent(t *testing.T) {
	roleA := primitive.NewObjectID().Hex()
	roleB := primitive.NewObjectID().Hex()

	env := newTestEnv(map[string]string{
		roleA: "Site Engineer",
		roleB: "Project Manager",
	})
	env.workTypes.add(&worktype.DocumentRequirement{
		WorkTypeID:       "wt1",
		DocumentTypeID:   "dt1",
		RequiresApproval: true,
		Steps: []worktype.ApprovalStepDef{
			{Level: 1, SequenceOrder: 1, RoleID: roleA},
			{Level: 2, SequenceOrder: 1, RoleID: roleB},
		},
	})

	ctx := context.Background()
	steps, err := env.resolver.InstantiateChain(ctx, "doc1", "wt1", "dt1", 1000, nil)
	if err != nil {
		t.Fatalf("InstantiateChain() error = %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("instantiated %d steps, want 2", len(steps))
	}

	if _, err := env.resolver.InstantiateChain(ctx, "doc1", "wt1", "dt1", 1000, nil); !errors.Is(err, ErrChainAlreadyInstantiated) {
		t.Fatalf("second InstantiateChain() error = %v, want ErrChainAlreadyInstantiated", err)
	}

	entries, err := env.ledger.ListByDocument(ctx, "doc1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("ledger has %d entries after failed re-instantiation, want 2", len(entries))
	}
}

func TestInstantiateChainCallerExtraRoles(t *testing.T) {
	roleA := primitive.NewObjectID().Hex()
	roleFD := primitive.NewObjectID().Hex()

	env := newTestEnv(map[string]string{
		roleA:  "Site Engineer",
		roleFD: "Finance Director",
	})
	env.workTypes.add(&worktype.DocumentRequirement{
		WorkTypeID:       "wt1",
		DocumentTypeID:   "dt1",
		RequiresApproval: true,
		Steps: []worktype.ApprovalStepDef{
			{Level: 1, SequenceOrder: 1, RoleID: roleA},
		},
	})

	ctx := context.Background()
	steps, err := env.resolver.InstantiateChain(ctx, "doc1", "wt1", "dt1", 1000,
		[]string{"Finance Director", "Unknown Role", "Site Engineer"})
	if err != nil {
		t.Fatalf("InstantiateChain() error = %v", err)
	}

	// Unknown names and roles already on the chain are skipped.
	if len(steps) != 2 {
		t.Fatalf("instantiated %d steps, want 2", len(steps))
	}
	if steps[0].IsExtra {
		t.Errorf("steps[0].IsExtra = true, want false for a configured rung")
	}
	if steps[1].RoleName != "Finance Director" || !steps[1].IsExtra {
		t.Errorf("steps[1] = %+v, want Finance Director extra rung", steps[1])
	}

	entries, err := env.ledger.ListByDocument(ctx, "doc1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(entries))
	}
	if entries[1].RoleID != roleFD || !entries[1].IsExtra {
		t.Errorf("entries[1] = %+v, want extra Finance Director entry", entries[1])
	}
}
