package usecase

import (
	"context"

	"github.com/moaform/moaform-api/internal/entity"
)

// TenantStoreInterface reads tenant and blacklist state from the external
// store. FindByID returns (nil, nil) when the tenant does not exist;
// errors are reserved for store failures.
type TenantStoreInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Tenant, error)
	IsBlacklisted(ctx context.Context, tenantID string, q entity.BlacklistQuery) (bool, error)
}

// LeadStoreInterface persists leads into a tenant's lead table.
type LeadStoreInterface interface {
	Create(ctx context.Context, tableRef, tenantID string, lead *entity.Lead) (*entity.Lead, error)
}

// Notification channels. All best-effort: the pipeline never waits on
// them and never surfaces their failures.

type ChatService interface {
	SendChatMessage(chatID, text string) error
}

type SlackService interface {
	PostMessage(channel, text string) error
}

type SMSService interface {
	SendSMS(phone, body string) error
}

type EmailService interface {
	SendLeadAlert(to, subject, html string) error
}
