package usecase

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moaform/moaform-api/internal/entity"
	"github.com/moaform/moaform-api/internal/guard"
)

// User-visible messages. The abuse paths stay vague on purpose so blocked
// actors learn nothing about the detection logic.
const (
	msgAccepted      = "신청이 완료되었습니다."
	msgMissingFields = "필수 항목을 입력해주세요."
	msgInvalidField  = "입력하신 정보를 다시 확인해주세요."
	msgInvalidClient = "잘못된 요청입니다."
	msgInactive      = "현재 신청을 받지 않는 페이지입니다."
	msgNotConfigured = "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	msgProfanity     = "입력 내용을 확인해주세요."
	msgBlocked       = "시스템 오류가 발생했습니다."
	msgDuplicate     = "이미 신청이 완료되었습니다. 잠시 후 다시 시도해주세요."
)

// SubmitLeadUseCase runs a submission through the admission pipeline:
// validation, abuse gates, dedup, blacklist, persistence, then detached
// notification fan-out, in that fixed order.
type SubmitLeadUseCase struct {
	Tenants  TenantStoreInterface
	Leads    LeadStoreInterface
	Dedup    *guard.DuplicateSuppressor
	Abuse    *guard.AbuseCounter
	Notifier *Notifier

	// BlacklistTypes selects which deny-rule types are consulted at
	// submission time. kakaoId entries are consulted on the OAuth
	// callback path instead, so the default is phone+ip.
	BlacklistTypes []string
}

func NewSubmitLeadUseCase(
	tenants TenantStoreInterface,
	leads LeadStoreInterface,
	dedup *guard.DuplicateSuppressor,
	abuse *guard.AbuseCounter,
	notifier *Notifier,
	blacklistTypes []string,
) *SubmitLeadUseCase {
	if len(blacklistTypes) == 0 {
		blacklistTypes = []string{entity.BlacklistTypePhone, entity.BlacklistTypeIP}
	}
	return &SubmitLeadUseCase{
		Tenants:        tenants,
		Leads:          leads,
		Dedup:          dedup,
		Abuse:          abuse,
		Notifier:       notifier,
		BlacklistTypes: blacklistTypes,
	}
}

type stepOutcome int

const (
	stepContinue stepOutcome = iota
	stepReject
	stepSilentAccept
)

// admission carries one submission's state through the steps.
type admission struct {
	input  SubmitLeadInput
	phone  string // normalized once, up front
	tenant *entity.Tenant
	reject *RejectError
}

func (a *admission) fail(reason string, status int, message string) (stepOutcome, error) {
	a.reject = &RejectError{Reason: reason, Status: status, Message: message}
	return stepReject, nil
}

// admissionStep is one named guard. Steps run in slice order and the
// first non-continue outcome wins, so the order below IS the contract.
type admissionStep struct {
	name string
	run  func(ctx context.Context, a *admission) (stepOutcome, error)
}

func (uc *SubmitLeadUseCase) steps() []admissionStep {
	return []admissionStep{
		{"required_fields", uc.checkRequiredFields},
		{"abuse_block", uc.checkAbuseBlock},
		{"field_format", uc.checkFieldFormat},
		{"tenant", uc.checkTenant},
		{"lead_table", uc.checkLeadTable},
		{"schema_fields", uc.checkSchemaFields},
		{"profanity", uc.checkProfanity},
		{"duplicate", uc.checkDuplicate},
		{"blacklist", uc.checkBlacklist},
	}
}

// Execute runs the pipeline. Rejections come back as *RejectError, store
// failures as *TechnicalError. A blacklist match returns the same output
// as a real acceptance, with no side effects.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	a := &admission{input: input, phone: NormalizePhone(input.Phone)}

	for _, step := range uc.steps() {
		outcome, err := step.run(ctx, a)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case stepReject:
			logrus.WithFields(logrus.Fields{
				"tenant": input.TenantID,
				"step":   step.name,
				"reason": a.reject.Reason,
			}).Info("submission rejected")
			return nil, a.reject
		case stepSilentAccept:
			logrus.WithFields(logrus.Fields{
				"tenant": input.TenantID,
				"ip":     input.IP,
			}).Info("submission silently dropped (blacklist)")
			return &SubmitLeadOutput{Success: true, Message: msgAccepted}, nil
		}
	}

	lead, err := uc.persist(ctx, a)
	if err != nil {
		logrus.WithError(err).WithField("tenant", input.TenantID).Error("lead persistence failed")
		return nil, &TechnicalError{Code: "STORE_ERROR", Message: "failed to save lead: " + err.Error()}
	}

	// Fan-out runs detached: the response never waits on it and a panic
	// inside a channel client cannot reach the caller.
	go uc.Notifier.NotifyLead(a.tenant, lead)

	return &SubmitLeadOutput{Success: true, Message: msgAccepted}, nil
}

func (uc *SubmitLeadUseCase) checkRequiredFields(_ context.Context, a *admission) (stepOutcome, error) {
	switch {
	case strings.TrimSpace(a.input.TenantID) == "":
		return a.fail(ReasonMissingFields, http.StatusBadRequest, msgMissingFields+" (tenantId)")
	case strings.TrimSpace(a.input.Name) == "":
		return a.fail(ReasonMissingFields, http.StatusBadRequest, msgMissingFields+" (이름)")
	case strings.TrimSpace(a.input.Phone) == "":
		return a.fail(ReasonMissingFields, http.StatusBadRequest, msgMissingFields+" (연락처)")
	}
	return stepContinue, nil
}

func (uc *SubmitLeadUseCase) checkAbuseBlock(_ context.Context, a *admission) (stepOutcome, error) {
	if uc.Abuse.IsBlocked(a.input.IP) {
		return a.fail(ReasonBlocked, http.StatusForbidden, msgBlocked)
	}
	return stepContinue, nil
}

func (uc *SubmitLeadUseCase) checkFieldFormat(_ context.Context, a *admission) (stepOutcome, error) {
	if !ValidateName(a.input.Name) {
		return a.fail(ReasonInvalidField, http.StatusBadRequest, "이름을 다시 확인해주세요.")
	}
	if !ValidatePhone(a.input.Phone) {
		return a.fail(ReasonInvalidField, http.StatusBadRequest, "연락처를 다시 확인해주세요.")
	}
	// Disabled optional fields arrive empty, so checking only non-empty
	// values is equivalent to checking only enabled fields.
	if a.input.Email != "" && !ValidateEmail(a.input.Email) {
		return a.fail(ReasonInvalidField, http.StatusBadRequest, "이메일을 다시 확인해주세요.")
	}
	return stepContinue, nil
}

func (uc *SubmitLeadUseCase) checkTenant(ctx context.Context, a *admission) (stepOutcome, error) {
	tenant, err := uc.Tenants.FindByID(ctx, a.input.TenantID)
	if err != nil {
		return stepContinue, &TechnicalError{Code: "STORE_ERROR", Message: "tenant lookup failed: " + err.Error()}
	}
	if tenant == nil {
		return a.fail(ReasonInvalidClient, http.StatusBadRequest, msgInvalidClient)
	}
	if !tenant.IsActive() {
		return a.fail(ReasonInactive, http.StatusBadRequest, msgInactive)
	}
	a.tenant = tenant
	return stepContinue, nil
}

func (uc *SubmitLeadUseCase) checkLeadTable(_ context.Context, a *admission) (stepOutcome, error) {
	if a.tenant.LeadTableID == "" {
		logrus.WithField("tenant", a.tenant.ID).Error("tenant has no lead table configured")
		return a.fail(ReasonNotConfigured, http.StatusInternalServerError, msgNotConfigured)
	}
	return stepContinue, nil
}

// checkSchemaFields enforces the tenant's own required flags, which can
// only be evaluated once the tenant is loaded.
func (uc *SubmitLeadUseCase) checkSchemaFields(_ context.Context, a *admission) (stepOutcome, error) {
	for _, f := range a.tenant.FormFields {
		if !f.Required || !f.Enabled {
			continue
		}
		if strings.TrimSpace(a.fieldValue(f.Name)) == "" {
			label := f.Label
			if label == "" {
				label = f.Name
			}
			return a.fail(ReasonMissingFields, http.StatusBadRequest, msgMissingFields+" ("+label+")")
		}
	}
	return stepContinue, nil
}

func (uc *SubmitLeadUseCase) checkProfanity(_ context.Context, a *admission) (stepOutcome, error) {
	if field := guard.CheckFields(a.freeTextFields()); field != "" {
		blocked := uc.Abuse.RecordViolation(a.input.IP)
		logrus.WithFields(logrus.Fields{
			"tenant":  a.input.TenantID,
			"field":   field,
			"ip":      a.input.IP,
			"blocked": blocked,
		}).Warn("profanity detected")
		if blocked {
			return a.fail(ReasonBlocked, http.StatusForbidden, msgBlocked)
		}
		return a.fail(ReasonProfanity, http.StatusBadRequest, msgProfanity)
	}
	return stepContinue, nil
}

func (uc *SubmitLeadUseCase) checkDuplicate(_ context.Context, a *admission) (stepOutcome, error) {
	if a.phone != "" && uc.Dedup.Check(a.input.TenantID, a.phone) {
		return a.fail(ReasonDuplicate, http.StatusTooManyRequests, msgDuplicate)
	}
	return stepContinue, nil
}

func (uc *SubmitLeadUseCase) checkBlacklist(ctx context.Context, a *admission) (stepOutcome, error) {
	var q entity.BlacklistQuery
	for _, t := range uc.BlacklistTypes {
		switch t {
		case entity.BlacklistTypePhone:
			q.Phone = a.phone
		case entity.BlacklistTypeIP:
			q.IP = a.input.IP
		case entity.BlacklistTypeKakaoID:
			q.KakaoID = a.input.KakaoID
		}
	}

	matched, err := uc.Tenants.IsBlacklisted(ctx, a.input.TenantID, q)
	if err != nil {
		// Fail open: a store hiccup must not turn away real submitters.
		logrus.WithError(err).WithField("tenant", a.input.TenantID).Warn("blacklist lookup failed, accepting")
		return stepContinue, nil
	}
	if matched {
		return stepSilentAccept, nil
	}
	return stepContinue, nil
}

func (uc *SubmitLeadUseCase) persist(ctx context.Context, a *admission) (*entity.Lead, error) {
	ua := entity.TruncateUserAgent(a.input.UserAgent)
	ip := a.input.IP
	if ip == "" {
		ip = "unknown"
	}

	lead := &entity.Lead{
		TenantID:     a.tenant.ID,
		Name:         strings.TrimSpace(a.input.Name),
		Phone:        a.phone,
		Email:        a.input.Email,
		BusinessName: a.input.BusinessName,
		Address:      a.input.Address,
		Birthdate:    a.input.Birthdate,
		Memo:         a.input.Memo,
		KakaoID:      a.input.KakaoID,
		Custom:       a.input.Custom,
		Status:       entity.LeadStatusNew,
		IPAddress:    ip,
		UserAgent:    ua,
		CreatedAt:    time.Now(),
	}
	return uc.Leads.Create(ctx, a.tenant.LeadTableID, a.tenant.ID, lead)
}

// fieldValue resolves a form-schema field name against the submission.
func (a *admission) fieldValue(name string) string {
	switch name {
	case "name":
		return a.input.Name
	case "phone":
		return a.input.Phone
	case "email":
		return a.input.Email
	case "business_name":
		return a.input.BusinessName
	case "address":
		return a.input.Address
	case "birthdate":
		return a.input.Birthdate
	case "memo":
		return a.input.Memo
	}
	return a.input.Custom[name]
}

// freeTextFields lists every free-text field in the order the screen
// declares them: fixed fields first, custom fields in sorted-key order so
// the "first offending field" answer is deterministic.
func (a *admission) freeTextFields() []guard.Field {
	fields := []guard.Field{
		{Name: "name", Value: a.input.Name},
		{Name: "business_name", Value: a.input.BusinessName},
		{Name: "address", Value: a.input.Address},
		{Name: "memo", Value: a.input.Memo},
	}
	keys := make([]string, 0, len(a.input.Custom))
	for k := range a.input.Custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, guard.Field{Name: k, Value: a.input.Custom[k]})
	}
	return fields
}
