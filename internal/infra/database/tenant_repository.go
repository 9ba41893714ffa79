package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/moaform/moaform-api/internal/entity"
	"github.com/moaform/moaform-api/internal/infra/integration/airtable"
)

// TenantRepository reads tenant and blacklist records from Airtable.
type TenantRepository struct {
	Client         *airtable.Client
	TenantTable    string
	BlacklistTable string
}

func NewTenantRepository(client *airtable.Client, tenantTable, blacklistTable string) *TenantRepository {
	return &TenantRepository{
		Client:         client,
		TenantTable:    tenantTable,
		BlacklistTable: blacklistTable,
	}
}

// FindByID looks a tenant up by its tenant_id column. Returns (nil, nil)
// when no row matches.
func (r *TenantRepository) FindByID(ctx context.Context, id string) (*entity.Tenant, error) {
	return r.findOne(ctx, fmt.Sprintf("{tenant_id}='%s'", airtable.EscapeFormulaValue(id)))
}

// FindBySlug looks a tenant up by its landing-page slug.
func (r *TenantRepository) FindBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	return r.findOne(ctx, fmt.Sprintf("{slug}='%s'", airtable.EscapeFormulaValue(slug)))
}

func (r *TenantRepository) findOne(ctx context.Context, formula string) (*entity.Tenant, error) {
	recs, err := r.Client.ListRecords(ctx, r.TenantTable, formula, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return tenantFromRecord(&recs[0]), nil
}

// IsBlacklisted checks the tenant's deny list for any of the non-empty
// identifiers in q. A single OR formula keeps it to one round trip.
func (r *TenantRepository) IsBlacklisted(ctx context.Context, tenantID string, q entity.BlacklistQuery) (bool, error) {
	var conds []string
	if q.Phone != "" {
		conds = append(conds, blacklistCond(entity.BlacklistTypePhone, q.Phone))
	}
	if q.IP != "" {
		conds = append(conds, blacklistCond(entity.BlacklistTypeIP, q.IP))
	}
	if q.KakaoID != "" {
		conds = append(conds, blacklistCond(entity.BlacklistTypeKakaoID, q.KakaoID))
	}
	if len(conds) == 0 {
		return false, nil
	}

	formula := fmt.Sprintf("AND({tenant_id}='%s',OR(%s))",
		airtable.EscapeFormulaValue(tenantID), strings.Join(conds, ","))

	recs, err := r.Client.ListRecords(ctx, r.BlacklistTable, formula, 1)
	if err != nil {
		return false, err
	}
	return len(recs) > 0, nil
}

func blacklistCond(entryType, value string) string {
	return fmt.Sprintf("AND({type}='%s',{value}='%s')",
		entryType, airtable.EscapeFormulaValue(value))
}

func tenantFromRecord(rec *airtable.Record) *entity.Tenant {
	t := &entity.Tenant{
		ID:             stringField(rec, "tenant_id"),
		Slug:           stringField(rec, "slug"),
		Name:           stringField(rec, "name"),
		Status:         stringField(rec, "status"),
		LeadTableID:    stringField(rec, "lead_table_id"),
		TelegramChatID: stringField(rec, "telegram_chat_id"),
		SlackChannel:   stringField(rec, "slack_channel"),
		SMSEnabled:     boolField(rec, "sms_enabled"),
		SMSRecipient:   stringField(rec, "sms_recipient"),
		EmailEnabled:   boolField(rec, "email_enabled"),
		NotifyEmail:    stringField(rec, "notify_email"),
	}
	// The form schema is stored as JSON text in one long-text column.
	if raw := stringField(rec, "form_fields"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &t.FormFields)
	}
	return t
}

func stringField(rec *airtable.Record, key string) string {
	v, _ := rec.Fields[key].(string)
	return v
}

func boolField(rec *airtable.Record, key string) bool {
	v, _ := rec.Fields[key].(bool)
	return v
}
