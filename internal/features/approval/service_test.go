package approval

import (
	"context"
	"errors"
	"sync"
	"testing"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/worktype"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApproveSequentialChain(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	engineer := Actor{UserID: "u1", Roles: []string{"Site Engineer"}}
	manager := Actor{UserID: "u2", Roles: []string{"Project Manager"}}
	director := Actor{UserID: "u3", Roles: []string{"Operations Director"}}

	for _, actor := range []Actor{engineer, manager, director} {
		entry, err := f.env.service.Approve(ctx, actor, "doc1", "ok")
		if err != nil {
			t.Fatalf("Approve(%s) error = %v", actor.Roles[0], err)
		}
		if entry == nil || entry.Status != common_models.DecisionApproved {
			t.Fatalf("Approve(%s) entry = %+v, want approved entry", actor.Roles[0], entry)
		}
	}

	doc, err := f.env.docs.FindRef(ctx, "doc1")
	if err != nil {
		t.Fatalf("FindRef() error = %v", err)
	}
	if doc.Status != common_models.DocumentStatusApproved {
		t.Errorf("document status = %s, want approved", doc.Status)
	}
	if f.env.parent.decidedCount() == 0 {
		t.Error("parent aggregate never told about the decision")
	}
}

func TestApproveOutOfOrderDenied(t *testing.T) {
	f := newGateFixture(t)

	manager := Actor{UserID: "u2", Roles: []string{"Project Manager"}}
	_, err := f.env.service.Approve(context.Background(), manager, "doc1", "")
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("Approve() error = %v, want ErrNotAuthorized", err)
	}
}

func TestRejectHaltsAndFreezesDocument(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	engineer := Actor{UserID: "u1", Roles: []string{"Site Engineer"}}
	entry, err := f.env.service.Reject(ctx, engineer, "doc1", "incomplete drawings")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if entry.Status != common_models.DecisionRejected {
		t.Fatalf("entry status = %s, want rejected", entry.Status)
	}

	doc, err := f.env.docs.FindRef(ctx, "doc1")
	if err != nil {
		t.Fatalf("FindRef() error = %v", err)
	}
	if doc.Status != common_models.DocumentStatusRejected {
		t.Errorf("document status = %s, want rejected", doc.Status)
	}

	// The document is decided; nothing further can land on it.
	manager := Actor{UserID: "u2", Roles: []string{"Project Manager"}}
	if _, err := f.env.service.Approve(ctx, manager, "doc1", ""); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("Approve() after rejection error = %v, want ErrAlreadyDecided", err)
	}
}

func TestApproveConcurrentRace(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	actors := []Actor{
		{UserID: "u1", Roles: []string{"Site Engineer"}},
		{UserID: "u2", Roles: []string{"Site Engineer"}},
	}

	var wg sync.WaitGroup
	results := make([]error, len(actors))
	for i, actor := range actors {
		wg.Add(1)
		go func(i int, actor Actor) {
			defer wg.Done()
			_, results[i] = f.env.service.Approve(ctx, actor, "doc1", "")
		}(i, actor)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyDecided), errors.Is(err, ErrNotAuthorized):
			// Depending on interleaving the loser fails the conditional
			// update or already sees the advanced rung at the gate.
			losses++
		default:
			t.Fatalf("unexpected race outcome: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("race produced %d wins and %d losses, want exactly 1 and 1", wins, losses)
	}

	entries, err := f.env.ledger.ListByDocument(ctx, "doc1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	var decided int
	for _, e := range entries {
		if e.Status != common_models.DecisionPending {
			decided++
		}
	}
	if decided != 1 {
		t.Errorf("ledger has %d decided entries, want 1", decided)
	}
}

func TestAdminDecidesEveryRung(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	admin := Actor{UserID: "boss", Roles: []string{"Admin"}}
	for i := 0; i < 3; i++ {
		if _, err := f.env.service.Approve(ctx, admin, "doc1", ""); err != nil {
			t.Fatalf("admin Approve() #%d error = %v", i+1, err)
		}
	}

	doc, err := f.env.docs.FindRef(ctx, "doc1")
	if err != nil {
		t.Fatalf("FindRef() error = %v", err)
	}
	if doc.Status != common_models.DocumentStatusApproved {
		t.Errorf("document status = %s, want approved after admin cleared all rungs", doc.Status)
	}

	if _, err := f.env.service.Approve(ctx, admin, "doc1", ""); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("admin Approve() on decided document error = %v, want ErrAlreadyDecided", err)
	}
}

func TestInstantiateForDocumentNotifiesFirstRung(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	f.env.docs.add(&DocumentRef{
		ID:               "doc9",
		Kind:             common_models.KindProcurement,
		ParentID:         "parent1",
		DocumentTypeID:   "dt1",
		Status:           common_models.DocumentStatusUploaded,
		RequiresApproval: true,
	}, "")

	rungs, err := f.env.service.InstantiateForDocument(ctx, &DocumentRef{
		ID:             "doc9",
		Kind:           common_models.KindProcurement,
		ParentID:       "parent1",
		DocumentTypeID: "dt1",
	}, nil)
	if err != nil {
		t.Fatalf("InstantiateForDocument() error = %v", err)
	}
	if rungs != 3 {
		t.Fatalf("rungs = %d, want 3", rungs)
	}

	f.env.notifier.mu.Lock()
	defer f.env.notifier.mu.Unlock()
	if len(f.env.notifier.roles) == 0 || f.env.notifier.roles[0] != "Site Engineer" {
		t.Errorf("first notified role = %v, want Site Engineer", f.env.notifier.roles)
	}
}

func TestInstantiationExtraRolesGateAfterChain(t *testing.T) {
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
	env.parent.add("parent1", "wt1", 1000)
	env.docs.add(&DocumentRef{
		ID:               "doc1",
		Kind:             common_models.KindWorkOrder,
		ParentID:         "parent1",
		DocumentTypeID:   "dt1",
		Status:           common_models.DocumentStatusPending,
		RequiresApproval: true,
	}, "")

	ctx := context.Background()
	rungs, err := env.service.InstantiateForDocument(ctx, &DocumentRef{
		ID:             "doc1",
		Kind:           common_models.KindWorkOrder,
		ParentID:       "parent1",
		DocumentTypeID: "dt1",
	}, []string{"Finance Director"})
	if err != nil {
		t.Fatalf("InstantiateForDocument() error = %v", err)
	}
	if rungs != 2 {
		t.Fatalf("rungs = %d, want 2", rungs)
	}

	engineer := Actor{UserID: "u1", Roles: []string{"Site Engineer"}}
	finance := Actor{UserID: "u2", Roles: []string{"Finance Director"}}

	// The extra rung waits behind the configured chain.
	if _, err := env.service.Approve(ctx, finance, "doc1", ""); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("extra role before configured rung: error = %v, want ErrNotAuthorized", err)
	}

	if _, err := env.service.Approve(ctx, engineer, "doc1", ""); err != nil {
		t.Fatalf("Approve(engineer) error = %v", err)
	}
	doc, err := env.docs.FindRef(ctx, "doc1")
	if err != nil {
		t.Fatalf("FindRef() error = %v", err)
	}
	if doc.Status != common_models.DocumentStatusPending {
		t.Fatalf("document status = %s before extra rung decided, want pending", doc.Status)
	}

	if _, err := env.service.Approve(ctx, finance, "doc1", ""); err != nil {
		t.Fatalf("Approve(finance) error = %v", err)
	}
	doc, err = env.docs.FindRef(ctx, "doc1")
	if err != nil {
		t.Fatalf("FindRef() error = %v", err)
	}
	if doc.Status != common_models.DocumentStatusApproved {
		t.Errorf("document status = %s, want approved", doc.Status)
	}
}

func TestLastDecisionByUser(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	engineer := Actor{UserID: "u1", Roles: []string{"Site Engineer"}}
	manager := Actor{UserID: "u2", Roles: []string{"Project Manager"}}

	if _, err := f.env.service.Approve(ctx, engineer, "doc1", "looks good"); err != nil {
		t.Fatalf("Approve(engineer) error = %v", err)
	}
	if _, err := f.env.service.Approve(ctx, manager, "doc1", "agreed"); err != nil {
		t.Fatalf("Approve(manager) error = %v", err)
	}

	entry, err := f.env.service.LastDecisionByUser(ctx, "doc1", "u2")
	if err != nil {
		t.Fatalf("LastDecisionByUser() error = %v", err)
	}
	if entry.ApproverID != "u2" || entry.RoleName != "Project Manager" {
		t.Errorf("entry = %+v, want Project Manager decision by u2", entry)
	}

	if _, err := f.env.service.LastDecisionByUser(ctx, "doc1", "u3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LastDecisionByUser(unacted user) error = %v, want ErrNotFound", err)
	}

	approved, err := f.env.service.ListApprovedLedger(ctx, "doc1")
	if err != nil {
		t.Fatalf("ListApprovedLedger() error = %v", err)
	}
	if len(approved) != 2 {
		t.Errorf("ListApprovedLedger() returned %d entries, want 2", len(approved))
	}
}
