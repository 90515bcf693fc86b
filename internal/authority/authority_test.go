package authority

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/recovery-cli/internal/compliance"
	"github.com/sells-group/recovery-cli/internal/config"
	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/outreach"
	"github.com/sells-group/recovery-cli/internal/store"
)

// memStore is a minimal in-memory Store for boundary tests.
type memStore struct {
	mu        sync.Mutex
	leads     map[string]*model.Lead
	approvals map[string]*model.ApprovalRequest
	events    []model.ActivityEntry
	sends     int
}

func newMemStore() *memStore {
	return &memStore{
		leads:     map[string]*model.Lead{},
		approvals: map[string]*model.ApprovalRequest{},
	}
}

func (m *memStore) put(lead *model.Lead) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *lead
	m.leads[lead.ID] = &cp
}

func (m *memStore) CreateLead(_ context.Context, lead *model.Lead) error {
	m.put(lead)
	return nil
}

func (m *memStore) GetLead(_ context.Context, id string) (*model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *lead
	return &cp, nil
}

func (m *memStore) ListLeads(context.Context, store.LeadFilter) ([]model.Lead, error) {
	return nil, nil
}
func (m *memStore) ListDueLeads(context.Context, time.Time, int) ([]model.Lead, error) {
	return nil, nil
}

func (m *memStore) UpdateLead(_ context.Context, lead *model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.leads[lead.ID]
	if !ok {
		return store.ErrNotFound
	}
	if stored.Version != lead.Version {
		return store.ErrStaleLead
	}
	lead.Version++
	cp := *lead
	m.leads[lead.ID] = &cp
	return nil
}

func (m *memStore) InsertFundsRecords(context.Context, []model.FundsRecord) (int, error) {
	return 0, nil
}
func (m *memStore) InsertPropertyRecords(context.Context, []model.PropertyRecord) (int, error) {
	return 0, nil
}
func (m *memStore) ListFundsRecords(context.Context) ([]model.FundsRecord, error)       { return nil, nil }
func (m *memStore) ListPropertyRecords(context.Context) ([]model.PropertyRecord, error) { return nil, nil }
func (m *memStore) UpsertGoldenMatch(context.Context, model.MatchCandidate) (bool, error) {
	return false, nil
}

func (m *memStore) CreateApproval(_ context.Context, req *model.ApprovalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.approvals[req.ID] = &cp
	return nil
}

func (m *memStore) GetApproval(_ context.Context, id string) (*model.ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.approvals[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (m *memStore) ListApprovals(_ context.Context, state model.RequestState) ([]model.ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ApprovalRequest
	for _, req := range m.approvals {
		if state == "" || req.State == state {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *memStore) ResolveApproval(_ context.Context, id string, state model.RequestState, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.approvals[id]
	if !ok {
		return store.ErrNotFound
	}
	if req.State != model.RequestPending {
		return store.ErrAlreadyResolved
	}
	req.State = state
	req.ResolvedBy = actor
	now := time.Now().UTC()
	req.ResolvedAt = &now
	return nil
}

func (m *memStore) AppendActivity(_ context.Context, entry model.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, entry)
	return nil
}

func (m *memStore) ListActivity(_ context.Context, leadID string) ([]model.ActivityEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ActivityEntry
	for _, e := range m.events {
		if e.LeadID == leadID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) DailySendCount(context.Context, time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sends, nil
}

func (m *memStore) IncrDailySend(context.Context, time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends++
	return nil
}

func (m *memStore) Migrate(context.Context) error { return nil }
func (m *memStore) Close() error                  { return nil }

type fakeMessenger struct {
	mu   sync.Mutex
	sent int
	err  error
}

func (f *fakeMessenger) SendMessage(context.Context, string, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent++
	return "msg-1", nil
}

var (
	operator  = model.Actor{ID: "alice", Kind: model.ActorOperating}
	projector = model.Actor{ID: "proj-1", Kind: model.ActorProjecting}
	testNow   = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
)

func newTestService(st store.Store, msg outreach.Messenger) *Service {
	gate := compliance.NewGate(config.ComplianceConfig{
		MaxAttempts:      5,
		ContactHourStart: 0,
		ContactHourEnd:   24,
		DailyCap:         100,
	})
	engine := outreach.NewEngine(st, msg, nil, gate, config.OutreachConfig{
		MessagesPerSecond: 10_000,
		InitialMessage:    "Hi {name}",
		StageMessages:     []string{"One", "Two", "Three", "Four"},
		BatchLimit:        100,
	})
	return NewService(st, engine)
}

func newLead(id string, status model.LeadStatus) *model.Lead {
	return &model.Lead{
		ID:        id,
		OwnerName: "John Smith",
		Phones:    []string{"+15550001111"},
		Status:    status,
		Version:   1,
	}
}

func TestProjectingActorCannotExecute(t *testing.T) {
	st := newMemStore()
	msg := &fakeMessenger{}
	svc := newTestService(st, msg)
	st.put(newLead("l1", model.StatusNew))

	_, err := svc.Contact(context.Background(), projector, "l1", testNow)
	assert.True(t, eris.Is(err, ErrForbidden))

	_, err = svc.HandleReply(context.Background(), projector, "l1", "yes", testNow)
	assert.True(t, eris.Is(err, ErrForbidden))

	_, err = svc.ContractEvent(context.Background(), projector, "l1", outreach.ContractSigned, testNow)
	assert.True(t, eris.Is(err, ErrForbidden))

	_, _, err = svc.Resolve(context.Background(), projector, "r1", true, testNow)
	assert.True(t, eris.Is(err, ErrForbidden))

	// Nothing executed, nothing logged.
	assert.Equal(t, 0, msg.sent)
	assert.Empty(t, st.events)
}

func TestOperatingActorCannotFileRequests(t *testing.T) {
	st := newMemStore()
	svc := newTestService(st, &fakeMessenger{})
	st.put(newLead("l1", model.StatusNew))

	_, err := svc.Request(context.Background(), operator, "l1", model.RequestContact, "", testNow)
	assert.True(t, eris.Is(err, ErrForbidden))
}

func TestContactLogsOperatingActor(t *testing.T) {
	st := newMemStore()
	msg := &fakeMessenger{}
	svc := newTestService(st, msg)
	st.put(newLead("l1", model.StatusNew))

	out, err := svc.Contact(context.Background(), operator, "l1", testNow)
	require.NoError(t, err)
	assert.Equal(t, outreach.OutcomeSent, out.Status)
	assert.Equal(t, 1, msg.sent)

	entries, err := svc.Activity(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "contact", entries[0].Action)
	assert.Equal(t, "alice", entries[0].Actor)
}

func TestRequestAndApproveContact(t *testing.T) {
	st := newMemStore()
	msg := &fakeMessenger{}
	svc := newTestService(st, msg)
	st.put(newLead("l1", model.StatusNew))

	req, err := svc.Request(context.Background(), projector, "l1", model.RequestContact, "please reach out", testNow)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, req.State)
	assert.Equal(t, "proj-1", req.RequestedBy)

	// Filing a request executes nothing.
	assert.Equal(t, 0, msg.sent)

	pending, err := svc.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)

	resolved, out, err := svc.Resolve(context.Background(), operator, req.ID, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.RequestApproved, resolved.State)
	assert.Equal(t, "alice", resolved.ResolvedBy)
	assert.Equal(t, outreach.OutcomeSent, out.Status)
	assert.Equal(t, 1, msg.sent)

	// The executed contact is attributed to the operator, never the
	// projecting requester.
	entries, err := svc.Activity(context.Background(), "l1")
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "proj-1", e.Actor)
	}
}

func TestRejectExecutesNothing(t *testing.T) {
	st := newMemStore()
	msg := &fakeMessenger{}
	svc := newTestService(st, msg)
	st.put(newLead("l1", model.StatusNew))

	req, err := svc.Request(context.Background(), projector, "l1", model.RequestContact, "", testNow)
	require.NoError(t, err)

	resolved, out, err := svc.Resolve(context.Background(), operator, req.ID, false, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.RequestRejected, resolved.State)
	assert.Empty(t, out.Status)
	assert.Equal(t, 0, msg.sent)
}

func TestResolveTwiceFails(t *testing.T) {
	st := newMemStore()
	svc := newTestService(st, &fakeMessenger{})
	st.put(newLead("l1", model.StatusNew))

	req, err := svc.Request(context.Background(), projector, "l1", model.RequestInfo, "", testNow)
	require.NoError(t, err)

	_, _, err = svc.Resolve(context.Background(), operator, req.ID, true, testNow)
	require.NoError(t, err)

	_, _, err = svc.Resolve(context.Background(), operator, req.ID, false, testNow)
	assert.True(t, eris.Is(err, store.ErrAlreadyResolved))
}

func TestRequestUnknownLead(t *testing.T) {
	st := newMemStore()
	svc := newTestService(st, &fakeMessenger{})

	_, err := svc.Request(context.Background(), projector, "missing", model.RequestContact, "", testNow)
	assert.True(t, eris.Is(err, store.ErrNotFound))
}

func TestContactFollowUpPathForExistingLead(t *testing.T) {
	st := newMemStore()
	msg := &fakeMessenger{}
	svc := newTestService(st, msg)

	due := testNow.Add(-time.Hour)
	lead := newLead("l1", model.StatusContacted)
	lead.NextFollowUpAt = &due
	st.put(lead)

	out, err := svc.Contact(context.Background(), operator, "l1", testNow)
	require.NoError(t, err)
	assert.Equal(t, outreach.OutcomeSent, out.Status)

	stored, _ := st.GetLead(context.Background(), "l1")
	assert.Equal(t, 1, stored.FollowUpStage)
}
