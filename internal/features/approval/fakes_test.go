package approval

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "go-procure/internal/common/models"
	"go-procure/internal/features/audit"
	"go-procure/internal/features/notification"
	"go-procure/internal/features/role"
	"go-procure/internal/features/worktype"

	"github.com/gofiber/contrib/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeLedger is an in-memory LedgerRepository. DecideForRole uses the same
// pending-only compare-and-swap contract as the Mongo implementation, so the
// concurrency tests exercise the real winner/loser semantics.
type fakeLedger struct {
	mu      sync.Mutex
	entries []*LedgerEntry
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{}
}

func (f *fakeLedger) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakeLedger) InsertChain(ctx context.Context, documentID string, entries []LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.DocumentID == documentID {
			return ErrChainAlreadyInstantiated
		}
	}
	now := time.Now()
	for i := range entries {
		e := entries[i]
		e.ID = primitive.NewObjectID()
		e.DocumentID = documentID
		e.Status = common_models.DecisionPending
		e.CreatedAt = now
		f.entries = append(f.entries, &e)
	}
	return nil
}

func (f *fakeLedger) ListByDocument(ctx context.Context, documentID string) ([]LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []LedgerEntry
	for _, e := range f.entries {
		if e.DocumentID == documentID {
			out = append(out, *e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (f *fakeLedger) ListApproved(ctx context.Context, documentID string) ([]LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []LedgerEntry
	for _, e := range f.entries {
		if e.DocumentID == documentID && e.Status == common_models.DecisionApproved {
			out = append(out, *e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (f *fakeLedger) LastDecisionByUser(ctx context.Context, documentID, approverID string) (*LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *LedgerEntry
	for _, e := range f.entries {
		if e.DocumentID != documentID || e.ApproverID != approverID || e.DecidedAt == nil {
			continue
		}
		if latest == nil || e.DecidedAt.After(*latest.DecidedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	copy := *latest
	return &copy, nil
}

func (f *fakeLedger) FindByID(ctx context.Context, id string) (*LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID.Hex() == id {
			copy := *e
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) ApprovedRoleIDs(ctx context.Context, documentID string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool)
	for _, e := range f.entries {
		if e.DocumentID == documentID && e.Status == common_models.DecisionApproved {
			out[e.RoleID] = true
		}
	}
	return out, nil
}

func (f *fakeLedger) HasRejection(ctx context.Context, documentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.DocumentID == documentID && e.Status == common_models.DecisionRejected {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) DecideForRole(ctx context.Context, documentID, roleID string, status common_models.DecisionStatus, approverID, note string) (*LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var target *LedgerEntry
	for _, e := range f.entries {
		if e.DocumentID != documentID || e.RoleID != roleID || e.Status != common_models.DecisionPending {
			continue
		}
		if target == nil || e.Level < target.Level ||
			(e.Level == target.Level && e.SequenceOrder < target.SequenceOrder) {
			target = e
		}
	}
	if target == nil {
		return nil, ErrAlreadyDecided
	}

	now := time.Now()
	target.Status = status
	target.ApproverID = approverID
	target.Note = note
	target.DecidedAt = &now
	copy := *target
	return &copy, nil
}

func sortEntries(entries []LedgerEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0; j-- {
			a, b := entries[j-1], entries[j]
			if a.Level < b.Level || (a.Level == b.Level && a.SequenceOrder <= b.SequenceOrder) {
				break
			}
			entries[j-1], entries[j] = b, a
		}
	}
}

// fakeDocs is an in-memory DocumentStore.
type fakeDocs struct {
	mu   sync.Mutex
	docs map[string]*DocumentRef
	qr   map[string]string // qrText -> doc id
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{
		docs: make(map[string]*DocumentRef),
		qr:   make(map[string]string),
	}
}

func (f *fakeDocs) add(doc *DocumentRef, qrText string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID] = doc
	if qrText != "" {
		f.qr[qrText] = doc.ID
	}
}

func (f *fakeDocs) FindRef(ctx context.Context, id string) (*DocumentRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	copy := *doc
	return &copy, nil
}

func (f *fakeDocs) FindRefByQr(ctx context.Context, qrText string) (*DocumentRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.qr[qrText]
	if !ok {
		return nil, nil
	}
	copy := *f.docs[id]
	return &copy, nil
}

func (f *fakeDocs) SetDecision(ctx context.Context, id string, status common_models.DocumentStatus, isApproved bool, approverID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return fmt.Errorf("document %s not found", id)
	}
	doc.Status = status
	return nil
}

// fakeParent serves one aggregate record per id.
type fakeParent struct {
	mu         sync.Mutex
	amounts    map[string]float64
	workTypes  map[string]string
	registered []string
	decided    []string
}

func newFakeParent() *fakeParent {
	return &fakeParent{
		amounts:   make(map[string]float64),
		workTypes: make(map[string]string),
	}
}

func (f *fakeParent) add(parentID, workTypeID string, amount float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amounts[parentID] = amount
	f.workTypes[parentID] = workTypeID
}

func (f *fakeParent) Amount(ctx context.Context, parentID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	amount, ok := f.amounts[parentID]
	if !ok {
		return 0, fmt.Errorf("parent %s not found", parentID)
	}
	return amount, nil
}

func (f *fakeParent) WorkTypeID(ctx context.Context, parentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wt, ok := f.workTypes[parentID]
	if !ok {
		return "", fmt.Errorf("parent %s not found", parentID)
	}
	return wt, nil
}

func (f *fakeParent) OnDocumentRegistered(ctx context.Context, parentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, parentID)
	return nil
}

func (f *fakeParent) OnDocumentDecided(ctx context.Context, parentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decided = append(f.decided, parentID)
	return nil
}

func (f *fakeParent) decidedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.decided)
}

// fakeWorkTypes serves requirements keyed by workTypeID + documentTypeID.
type fakeWorkTypes struct {
	requirements map[string]*worktype.DocumentRequirement
}

func newFakeWorkTypes() *fakeWorkTypes {
	return &fakeWorkTypes{requirements: make(map[string]*worktype.DocumentRequirement)}
}

func (f *fakeWorkTypes) add(req *worktype.DocumentRequirement) {
	f.requirements[req.WorkTypeID+"/"+req.DocumentTypeID] = req
}

func (f *fakeWorkTypes) GetRequirement(ctx context.Context, workTypeID, documentTypeID string) (*worktype.DocumentRequirement, error) {
	return f.requirements[workTypeID+"/"+documentTypeID], nil
}

func (f *fakeWorkTypes) CreateWorkType(ctx context.Context, wt *worktype.WorkType) (*worktype.WorkType, error) {
	return wt, nil
}
func (f *fakeWorkTypes) GetWorkType(ctx context.Context, id string) (*worktype.WorkType, error) {
	return nil, nil
}
func (f *fakeWorkTypes) ListWorkTypes(ctx context.Context) ([]worktype.WorkType, error) {
	return nil, nil
}
func (f *fakeWorkTypes) UpdateWorkType(ctx context.Context, id string, wt *worktype.WorkType) error {
	return nil
}
func (f *fakeWorkTypes) DeleteWorkType(ctx context.Context, id string) error { return nil }
func (f *fakeWorkTypes) CreateRequirement(ctx context.Context, req *worktype.DocumentRequirement) (*worktype.DocumentRequirement, error) {
	return req, nil
}
func (f *fakeWorkTypes) ListRequirements(ctx context.Context, workTypeID string) ([]worktype.DocumentRequirement, error) {
	var out []worktype.DocumentRequirement
	for _, req := range f.requirements {
		if req.WorkTypeID == workTypeID {
			out = append(out, *req)
		}
	}
	return out, nil
}
func (f *fakeWorkTypes) UpdateRequirement(ctx context.Context, id string, req *worktype.DocumentRequirement) error {
	return nil
}
func (f *fakeWorkTypes) DeleteRequirement(ctx context.Context, id string) error { return nil }

// fakeRoles maps role ids to names.
type fakeRoles struct {
	names map[string]string
}

func newFakeRoles(names map[string]string) *fakeRoles {
	return &fakeRoles{names: names}
}

func (f *fakeRoles) ResolveName(ctx context.Context, id string) (string, error) {
	return f.names[id], nil
}

func (f *fakeRoles) GetRoleByName(ctx context.Context, name string) (*role.Role, error) {
	for id, n := range f.names {
		if n == name {
			oid, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				return nil, err
			}
			return &role.Role{ID: oid, Name: n}, nil
		}
	}
	return nil, nil
}

func (f *fakeRoles) CreateRole(ctx context.Context, r *role.Role) (*role.Role, error) { return r, nil }
func (f *fakeRoles) GetRoleByID(ctx context.Context, id string) (*role.Role, error)   { return nil, nil }
func (f *fakeRoles) ListRoles(ctx context.Context) ([]role.Role, error)               { return nil, nil }
func (f *fakeRoles) UpdateRole(ctx context.Context, id string, r *role.Role) error    { return nil }
func (f *fakeRoles) DeleteRole(ctx context.Context, id string) error                  { return nil }

// fakeAudit records nothing; the services under test only need a non-nil sink.
type fakeAudit struct{}

func (fakeAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	return nil
}
func (fakeAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

// fakeNotifier counts role fan-outs.
type fakeNotifier struct {
	mu    sync.Mutex
	roles []string
}

func (f *fakeNotifier) Notify(ctx context.Context, n *notification.Notification) error { return nil }
func (f *fakeNotifier) NotifyRole(ctx context.Context, roleName, kind, title, message, documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = append(f.roles, roleName)
	return nil
}
func (f *fakeNotifier) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	return nil, nil
}
func (f *fakeNotifier) MarkRead(ctx context.Context, id, userID string) error { return nil }
func (f *fakeNotifier) Register(userID string, conn *websocket.Conn)          {}
func (f *fakeNotifier) Unregister(userID string, conn *websocket.Conn)        {}

var (
	_ LedgerRepository                 = (*fakeLedger)(nil)
	_ DocumentStore                    = (*fakeDocs)(nil)
	_ ParentAggregate                  = (*fakeParent)(nil)
	_ worktype.WorkTypeService         = (*fakeWorkTypes)(nil)
	_ role.RoleService                 = (*fakeRoles)(nil)
	_ audit.AuditService               = fakeAudit{}
	_ notification.NotificationService = (*fakeNotifier)(nil)
)
