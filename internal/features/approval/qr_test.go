package approval

import (
	"context"
	"errors"
	"testing"

	common_models "go-procure/internal/common/models"
)

func TestResolveGateByQrPointsAtNextRung(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	info, err := f.env.qr.ResolveGateByQr(ctx, "qr-doc1")
	if err != nil {
		t.Fatalf("ResolveGateByQr() error = %v", err)
	}
	if !info.HasPendingGate {
		t.Fatal("HasPendingGate = false, want true")
	}
	if info.RoleName != "Site Engineer" || info.Level != 1 {
		t.Errorf("gate = %s level %d, want Site Engineer level 1", info.RoleName, info.Level)
	}
	if len(info.PendingEntries) != 3 {
		t.Errorf("pending entries = %d, want 3", len(info.PendingEntries))
	}

	// The lookup recomputes live: after the first rung approves, the same
	// token points at the second rung.
	f.approveAs(t, f.roleA)
	info, err = f.env.qr.ResolveGateByQr(ctx, "qr-doc1")
	if err != nil {
		t.Fatalf("ResolveGateByQr() error = %v", err)
	}
	if info.RoleName != "Project Manager" || info.Level != 2 {
		t.Errorf("gate = %s level %d, want Project Manager level 2", info.RoleName, info.Level)
	}
}

func TestResolveGateByQrUnknownToken(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.env.qr.ResolveGateByQr(context.Background(), "no-such-token")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ResolveGateByQr() error = %v, want ErrNotFound", err)
	}
}

func TestResolveGateByQrSatisfiedChain(t *testing.T) {
	f := newGateFixture(t)

	f.approveAs(t, f.roleA)
	f.approveAs(t, f.roleB)
	f.approveAs(t, f.roleC)

	info, err := f.env.qr.ResolveGateByQr(context.Background(), "qr-doc1")
	if err != nil {
		t.Fatalf("ResolveGateByQr() on satisfied chain error = %v, want nil", err)
	}
	if info.HasPendingGate {
		t.Error("HasPendingGate = true on satisfied chain, want false")
	}
	if info.Halted {
		t.Error("Halted = true on satisfied chain, want false")
	}
}

func TestResolveGateByQrHaltedChain(t *testing.T) {
	f := newGateFixture(t)

	if _, err := f.env.ledger.DecideForRole(context.Background(), "doc1", f.roleA, common_models.DecisionRejected, "u1", "no"); err != nil {
		t.Fatalf("DecideForRole() error = %v", err)
	}

	info, err := f.env.qr.ResolveGateByQr(context.Background(), "qr-doc1")
	if err != nil {
		t.Fatalf("ResolveGateByQr() error = %v", err)
	}
	if !info.Halted {
		t.Error("Halted = false on rejected chain, want true")
	}
	if info.HasPendingGate {
		t.Error("HasPendingGate = true on halted chain, want false")
	}
}

func TestResolveGateByLedgerEntry(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()

	entries, err := f.env.ledger.ListByDocument(ctx, "doc1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}

	// Any entry of the chain resolves to the document's current gate, not to
	// the entry's own rung.
	info, err := f.env.qr.ResolveGateByLedgerEntry(ctx, entries[2].ID.Hex())
	if err != nil {
		t.Fatalf("ResolveGateByLedgerEntry() error = %v", err)
	}
	if info.RoleName != "Site Engineer" {
		t.Errorf("gate role = %s, want Site Engineer", info.RoleName)
	}

	_, err = f.env.qr.ResolveGateByLedgerEntry(ctx, "000000000000000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown entry error = %v, want ErrNotFound", err)
	}
}
