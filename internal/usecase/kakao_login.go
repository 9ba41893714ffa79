package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moaform/moaform-api/internal/entity"
)

// KakaoLoginUseCase records an identity-verified visitor before the full
// form submission: a lead row with the kakao_login pseudo-status. The
// kakaoId blacklist type is consulted here, not in the submit path.
type KakaoLoginUseCase struct {
	Tenants TenantStoreInterface
	Leads   LeadStoreInterface
}

func NewKakaoLoginUseCase(tenants TenantStoreInterface, leads LeadStoreInterface) *KakaoLoginUseCase {
	return &KakaoLoginUseCase{Tenants: tenants, Leads: leads}
}

func (uc *KakaoLoginUseCase) Execute(ctx context.Context, input KakaoLoginInput) (*SubmitLeadOutput, error) {
	tenant, err := uc.Tenants.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, &TechnicalError{Code: "STORE_ERROR", Message: "tenant lookup failed: " + err.Error()}
	}
	if tenant == nil {
		return nil, &RejectError{Reason: ReasonInvalidClient, Status: http.StatusBadRequest, Message: msgInvalidClient}
	}
	if !tenant.IsActive() {
		return nil, &RejectError{Reason: ReasonInactive, Status: http.StatusBadRequest, Message: msgInactive}
	}
	if tenant.LeadTableID == "" {
		logrus.WithField("tenant", tenant.ID).Error("tenant has no lead table configured")
		return nil, &RejectError{Reason: ReasonNotConfigured, Status: http.StatusInternalServerError, Message: msgNotConfigured}
	}

	matched, err := uc.Tenants.IsBlacklisted(ctx, tenant.ID, entity.BlacklistQuery{
		KakaoID: input.KakaoID,
		IP:      input.IP,
	})
	if err != nil {
		logrus.WithError(err).WithField("tenant", tenant.ID).Warn("blacklist lookup failed, accepting")
	} else if matched {
		// Same silent treatment as the submit path.
		logrus.WithFields(logrus.Fields{"tenant": tenant.ID, "ip": input.IP}).Info("kakao login silently dropped (blacklist)")
		return &SubmitLeadOutput{Success: true}, nil
	}

	ua := entity.TruncateUserAgent(input.UserAgent)
	ip := input.IP
	if ip == "" {
		ip = "unknown"
	}

	lead := &entity.Lead{
		TenantID:  tenant.ID,
		Name:      input.Nickname,
		Phone:     NormalizePhone(input.Phone),
		Email:     input.Email,
		KakaoID:   input.KakaoID,
		Status:    entity.LeadStatusKakaoLogin,
		IPAddress: ip,
		UserAgent: ua,
		CreatedAt: time.Now(),
	}
	if _, err := uc.Leads.Create(ctx, tenant.LeadTableID, tenant.ID, lead); err != nil {
		logrus.WithError(err).WithField("tenant", tenant.ID).Error("kakao login lead persistence failed")
		return nil, &TechnicalError{Code: "STORE_ERROR", Message: "failed to save kakao login: " + err.Error()}
	}

	return &SubmitLeadOutput{Success: true}, nil
}
