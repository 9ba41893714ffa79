package database

import (
	"context"

	"github.com/moaform/moaform-api/internal/entity"
	"github.com/moaform/moaform-api/internal/infra/integration/airtable"
)

// LeadRepository writes leads into per-tenant Airtable tables. tableRef
// comes from the tenant record, so one repository serves every tenant.
type LeadRepository struct {
	Client *airtable.Client
}

func NewLeadRepository(client *airtable.Client) *LeadRepository {
	return &LeadRepository{Client: client}
}

func (r *LeadRepository) Create(ctx context.Context, tableRef, tenantID string, lead *entity.Lead) (*entity.Lead, error) {
	fields := map[string]interface{}{
		"tenant_id":  tenantID,
		"name":       lead.Name,
		"status":     lead.Status,
		"ip_address": lead.IPAddress,
		"user_agent": lead.UserAgent,
	}
	setIfPresent(fields, "phone", lead.Phone)
	setIfPresent(fields, "email", lead.Email)
	setIfPresent(fields, "business_name", lead.BusinessName)
	setIfPresent(fields, "address", lead.Address)
	setIfPresent(fields, "birthdate", lead.Birthdate)
	setIfPresent(fields, "memo", lead.Memo)
	setIfPresent(fields, "kakao_id", lead.KakaoID)
	for k, v := range lead.Custom {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}

	rec, err := r.Client.CreateRecord(ctx, tableRef, fields)
	if err != nil {
		return nil, err
	}

	lead.ID = rec.ID
	lead.RecordURL = r.Client.RecordURL(tableRef, rec.ID)
	return lead, nil
}

// UpdateStatus is the portal/admin path for moving a lead through
// new → contacted → converted (or spam).
func (r *LeadRepository) UpdateStatus(ctx context.Context, tableRef, leadID, status string) error {
	_, err := r.Client.UpdateRecord(ctx, tableRef, leadID, map[string]interface{}{
		"status": status,
	})
	return err
}

func setIfPresent(fields map[string]interface{}, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
