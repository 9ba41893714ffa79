package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/moaform/moaform-api/internal/entity"
	"github.com/moaform/moaform-api/internal/guard"
)

// MockTenantStore
type MockTenantStore struct {
	mock.Mock
}

func (m *MockTenantStore) FindByID(ctx context.Context, id string) (*entity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Tenant), args.Error(1)
}

func (m *MockTenantStore) IsBlacklisted(ctx context.Context, tenantID string, q entity.BlacklistQuery) (bool, error) {
	args := m.Called(ctx, tenantID, q)
	return args.Bool(0), args.Error(1)
}

// MockLeadStore
type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) Create(ctx context.Context, tableRef, tenantID string, lead *entity.Lead) (*entity.Lead, error) {
	args := m.Called(ctx, tableRef, tenantID, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

// fakeChat stands in for the Telegram channel so tests can observe the
// detached fan-out.
type fakeChat struct {
	err  error
	sent chan string
}

func (f *fakeChat) SendChatMessage(chatID, text string) error {
	if f.sent != nil {
		f.sent <- text
	}
	return f.err
}

func activeTenant() *entity.Tenant {
	return &entity.Tenant{
		ID:          "t1",
		Slug:        "t1-landing",
		Name:        "테스트업체",
		Status:      entity.TenantStatusActive,
		LeadTableID: "tblLeads1",
	}
}

func validInput() SubmitLeadInput {
	return SubmitLeadInput{
		TenantID:  "t1",
		Name:      "홍길동",
		Phone:     "010-1234-5678",
		IP:        "1.2.3.4",
		UserAgent: "Mozilla/5.0",
	}
}

func newPipeline(tenants *MockTenantStore, leads *MockLeadStore, notifier *Notifier) *SubmitLeadUseCase {
	if notifier == nil {
		notifier = NewNotifier(nil, nil, nil, nil)
	}
	return NewSubmitLeadUseCase(tenants, leads, guard.NewDuplicateSuppressor(), guard.NewAbuseCounter(), notifier, nil)
}

// Scenario A: a valid submission against an active, configured tenant is
// accepted and persisted with a normalized phone.
func TestSubmitAcceptsValidLead(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	tenants.On("FindByID", ctx, "t1").Return(activeTenant(), nil)
	tenants.On("IsBlacklisted", ctx, "t1", mock.Anything).Return(false, nil)

	var saved *entity.Lead
	leads.On("Create", ctx, "tblLeads1", "t1", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(3).(*entity.Lead) }).
		Return(&entity.Lead{ID: "rec1"}, nil)

	uc := newPipeline(tenants, leads, nil)
	out, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.True(t, out.Success)
	leads.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, "01012345678", saved.Phone)
	assert.Equal(t, entity.LeadStatusNew, saved.Status)
	assert.Equal(t, "1.2.3.4", saved.IPAddress)
}

// Scenario B: the same phone again within the window is a duplicate.
func TestSubmitRejectsDuplicateWithinWindow(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	tenants.On("FindByID", ctx, "t1").Return(activeTenant(), nil)
	tenants.On("IsBlacklisted", ctx, "t1", mock.Anything).Return(false, nil)
	leads.On("Create", ctx, "tblLeads1", "t1", mock.Anything).Return(&entity.Lead{ID: "rec1"}, nil)

	uc := newPipeline(tenants, leads, nil)

	_, err := uc.Execute(ctx, validInput())
	assert.NoError(t, err)

	// Same number, different separators: still the same key.
	in := validInput()
	in.Phone = "01012345678"
	_, err = uc.Execute(ctx, in)

	rej, ok := AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonDuplicate, rej.Reason)
	assert.Equal(t, http.StatusTooManyRequests, rej.Status)
	assert.Contains(t, rej.Message, "이미 신청")
	leads.AssertNumberOfCalls(t, "Create", 1)
}

// Scenario C: first profanity hit is a 400, the second blocks the IP, and
// the third is turned away at the gate before anything else runs.
func TestSubmitProfanityEscalatesToBlock(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	tenants.On("FindByID", ctx, "t1").Return(activeTenant(), nil)

	uc := newPipeline(tenants, leads, nil)

	in := validInput()
	in.Memo = "시발"

	_, err := uc.Execute(ctx, in)
	rej, ok := AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonProfanity, rej.Reason)
	assert.Equal(t, http.StatusBadRequest, rej.Status)
	assert.Equal(t, msgProfanity, rej.Message)

	_, err = uc.Execute(ctx, in)
	rej, ok = AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonBlocked, rej.Reason)
	assert.Equal(t, http.StatusForbidden, rej.Status)

	// Third attempt: the abuse gate fires before the tenant is even
	// fetched, clean text or not.
	clean := validInput()
	_, err = uc.Execute(ctx, clean)
	rej, ok = AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonBlocked, rej.Reason)
	tenants.AssertNumberOfCalls(t, "FindByID", 2)
	leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Scenario D: inactive tenant rejects regardless of field validity.
func TestSubmitRejectsInactiveTenant(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	inactive := activeTenant()
	inactive.Status = entity.TenantStatusInactive
	tenants.On("FindByID", ctx, "t1").Return(inactive, nil)

	uc := newPipeline(tenants, leads, nil)
	_, err := uc.Execute(ctx, validInput())

	rej, ok := AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonInactive, rej.Reason)
	assert.Equal(t, http.StatusBadRequest, rej.Status)
	leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Scenario E: over-long user agents are truncated, not rejected.
func TestSubmitTruncatesUserAgent(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	tenants.On("FindByID", ctx, "t1").Return(activeTenant(), nil)
	tenants.On("IsBlacklisted", ctx, "t1", mock.Anything).Return(false, nil)

	var saved *entity.Lead
	leads.On("Create", ctx, "tblLeads1", "t1", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(3).(*entity.Lead) }).
		Return(&entity.Lead{ID: "rec1"}, nil)

	// Multibyte on purpose: the cap counts characters and must never
	// leave a split rune behind.
	in := validInput()
	in.UserAgent = strings.Repeat("한", 600)

	uc := newPipeline(tenants, leads, nil)
	out, err := uc.Execute(ctx, in)

	assert.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, entity.MaxUserAgentLen, utf8.RuneCountInString(saved.UserAgent))
	assert.True(t, utf8.ValidString(saved.UserAgent))
}

// A blacklist match looks like success to the caller but writes nothing.
func TestSubmitBlacklistMatchIsSilentlyAccepted(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	tenants.On("FindByID", ctx, "t1").Return(activeTenant(), nil)
	tenants.On("IsBlacklisted", ctx, "t1", mock.Anything).Return(true, nil)

	uc := newPipeline(tenants, leads, nil)
	out, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, msgAccepted, out.Message)
	leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitMissingFields(t *testing.T) {
	uc := newPipeline(new(MockTenantStore), new(MockLeadStore), nil)

	cases := []SubmitLeadInput{
		{Name: "홍길동", Phone: "010-1234-5678"},
		{TenantID: "t1", Phone: "010-1234-5678"},
		{TenantID: "t1", Name: "홍길동"},
	}
	for _, in := range cases {
		_, err := uc.Execute(context.Background(), in)
		rej, ok := AsRejectError(err)
		assert.True(t, ok)
		assert.Equal(t, ReasonMissingFields, rej.Reason)
		assert.Equal(t, http.StatusBadRequest, rej.Status)
	}
}

func TestSubmitInvalidPhoneFormat(t *testing.T) {
	uc := newPipeline(new(MockTenantStore), new(MockLeadStore), nil)

	in := validInput()
	in.Phone = "02-1234-5678"
	_, err := uc.Execute(context.Background(), in)

	rej, ok := AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonInvalidField, rej.Reason)
}

func TestSubmitUnknownTenant(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	tenants.On("FindByID", ctx, "t1").Return(nil, nil)

	uc := newPipeline(tenants, new(MockLeadStore), nil)
	_, err := uc.Execute(ctx, validInput())

	rej, ok := AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonInvalidClient, rej.Reason)
	assert.Equal(t, http.StatusBadRequest, rej.Status)
}

func TestSubmitTenantWithoutLeadTable(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)

	unprovisioned := activeTenant()
	unprovisioned.LeadTableID = ""
	tenants.On("FindByID", ctx, "t1").Return(unprovisioned, nil)

	uc := newPipeline(tenants, new(MockLeadStore), nil)
	_, err := uc.Execute(ctx, validInput())

	rej, ok := AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonNotConfigured, rej.Reason)
	assert.Equal(t, http.StatusInternalServerError, rej.Status)
}

func TestSubmitEnforcesTenantRequiredFields(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)

	tenant := activeTenant()
	tenant.FormFields = []entity.FormField{
		{Name: "business_name", Label: "상호명", Required: true, Enabled: true},
	}
	tenants.On("FindByID", ctx, "t1").Return(tenant, nil)

	uc := newPipeline(tenants, new(MockLeadStore), nil)
	_, err := uc.Execute(ctx, validInput())

	rej, ok := AsRejectError(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonMissingFields, rej.Reason)
	assert.Contains(t, rej.Message, "상호명")
}

func TestSubmitStoreFailureIsTechnical(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	tenants.On("FindByID", ctx, "t1").Return(activeTenant(), nil)
	tenants.On("IsBlacklisted", ctx, "t1", mock.Anything).Return(false, nil)
	leads.On("Create", ctx, "tblLeads1", "t1", mock.Anything).Return(nil, errors.New("airtable: 503"))

	uc := newPipeline(tenants, leads, nil)
	_, err := uc.Execute(ctx, validInput())

	assert.True(t, IsTechnicalError(err))
}

func TestSubmitBlacklistLookupFailsOpen(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	tenants.On("FindByID", ctx, "t1").Return(activeTenant(), nil)
	tenants.On("IsBlacklisted", ctx, "t1", mock.Anything).Return(false, errors.New("airtable: timeout"))
	leads.On("Create", ctx, "tblLeads1", "t1", mock.Anything).Return(&entity.Lead{ID: "rec1"}, nil)

	uc := newPipeline(tenants, leads, nil)
	out, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.True(t, out.Success)
	leads.AssertNumberOfCalls(t, "Create", 1)
}

// The fan-out is detached and its failures never reach the caller.
func TestSubmitNotificationFailureDoesNotAffectResponse(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantStore)
	leads := new(MockLeadStore)

	tenant := activeTenant()
	tenant.TelegramChatID = "-100123"
	tenants.On("FindByID", ctx, "t1").Return(tenant, nil)
	tenants.On("IsBlacklisted", ctx, "t1", mock.Anything).Return(false, nil)
	leads.On("Create", ctx, "tblLeads1", "t1", mock.Anything).Return(&entity.Lead{
		ID:        "rec1",
		Name:      "홍길동",
		Phone:     "01012345678",
		CreatedAt: time.Now(),
	}, nil)

	chat := &fakeChat{err: errors.New("telegram: 429"), sent: make(chan string, 1)}
	uc := newPipeline(tenants, leads, NewNotifier(chat, nil, nil, nil))

	out, err := uc.Execute(ctx, validInput())
	assert.NoError(t, err)
	assert.True(t, out.Success)

	select {
	case msg := <-chat.sent:
		assert.Contains(t, msg, "테스트업체")
		assert.Contains(t, msg, "홍길동")
		assert.Contains(t, msg, "010-1234-5678")
	case <-time.After(time.Second):
		t.Fatal("notification fan-out never ran")
	}
}
