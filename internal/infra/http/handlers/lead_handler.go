package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/moaform/moaform-api/internal/entity"
	"github.com/moaform/moaform-api/internal/infra/database"
	"github.com/moaform/moaform-api/internal/infra/http/middleware"
	"github.com/moaform/moaform-api/internal/usecase"
)

// LeadSubmitter is what the handler needs from the admission pipeline.
type LeadSubmitter interface {
	Execute(ctx context.Context, input usecase.SubmitLeadInput) (*usecase.SubmitLeadOutput, error)
}

type LeadHandler struct {
	Submit     LeadSubmitter
	TenantRepo *database.TenantRepository
	LeadRepo   *database.LeadRepository
}

func NewLeadHandler(submit LeadSubmitter, tenantRepo *database.TenantRepository, leadRepo *database.LeadRepository) *LeadHandler {
	return &LeadHandler{Submit: submit, TenantRepo: tenantRepo, LeadRepo: leadRepo}
}

// knownKeys are the payload keys mapped to fixed Lead columns; everything
// else in the body rides along as a tenant custom field.
var knownKeys = map[string]bool{
	"tenantId":     true,
	"name":         true,
	"phone":        true,
	"email":        true,
	"businessName": true,
	"address":      true,
	"birthdate":    true,
	"memo":         true,
	"kakaoId":      true,
}

// HandleSubmit is the single public entry point of the admission pipeline.
func (h *LeadHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Error: "잘못된 요청 형식입니다."})
		return
	}

	input := usecase.SubmitLeadInput{
		TenantID:     stringValue(raw, "tenantId"),
		Name:         stringValue(raw, "name"),
		Phone:        stringValue(raw, "phone"),
		Email:        stringValue(raw, "email"),
		BusinessName: stringValue(raw, "businessName"),
		Address:      stringValue(raw, "address"),
		Birthdate:    stringValue(raw, "birthdate"),
		Memo:         stringValue(raw, "memo"),
		KakaoID:      stringValue(raw, "kakaoId"),
		Custom:       customFields(raw),
		IP:           clientIP(r),
		UserAgent:    r.UserAgent(),
	}

	out, err := h.Submit.Execute(r.Context(), input)
	if err != nil {
		if rej, ok := usecase.AsRejectError(err); ok {
			middleware.RecordLeadOutcome(input.TenantID, rej.Reason)
			writeJSON(w, rej.Status, SubmitResponse{
				Success: false,
				Error:   rej.Message,
				Blocked: rej.Reason == usecase.ReasonBlocked,
			})
			return
		}
		logrus.WithError(err).WithField("tenant", input.TenantID).Error("submission failed")
		middleware.RecordLeadOutcome(input.TenantID, "error")
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{
			Success: false,
			Error:   "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
		})
		return
	}

	middleware.RecordLeadOutcome(input.TenantID, "accepted")
	writeJSON(w, http.StatusOK, SubmitResponse{Success: true, Message: out.Message})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus moves a lead through the portal status enum.
func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	leadID := chi.URLParam(r, "leadID")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Error: "잘못된 요청 형식입니다."})
		return
	}
	if !entity.ValidLeadStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Error: "지원하지 않는 상태값입니다."})
		return
	}

	tenant, err := h.TenantRepo.FindByID(r.Context(), tenantID)
	if err != nil {
		logrus.WithError(err).WithField("tenant", tenantID).Error("tenant lookup failed")
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{Success: false, Error: "일시적인 오류가 발생했습니다."})
		return
	}
	if tenant == nil || tenant.LeadTableID == "" {
		writeJSON(w, http.StatusNotFound, SubmitResponse{Success: false, Error: "존재하지 않는 업체입니다."})
		return
	}

	if err := h.LeadRepo.UpdateStatus(r.Context(), tenant.LeadTableID, leadID, req.Status); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"tenant": tenantID, "lead": leadID}).Error("status update failed")
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{Success: false, Error: "상태 변경에 실패했습니다."})
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{Success: true})
}

func stringValue(raw map[string]interface{}, key string) string {
	v, _ := raw[key].(string)
	return v
}

func customFields(raw map[string]interface{}) map[string]string {
	custom := make(map[string]string)
	for k, v := range raw {
		if knownKeys[k] || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			custom[k] = s
		} else {
			custom[k] = fmt.Sprint(v)
		}
	}
	if len(custom) == 0 {
		return nil
	}
	return custom
}

// clientIP picks the first X-Forwarded-For entry, then X-Real-IP, then
// the socket peer. The pipeline substitutes "unknown" for empty.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
