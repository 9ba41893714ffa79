package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/moaform/moaform-api/internal/entity"
	"github.com/moaform/moaform-api/internal/infra/database"
)

type TenantHandler struct {
	Repo *database.TenantRepository
}

func NewTenantHandler(repo *database.TenantRepository) *TenantHandler {
	return &TenantHandler{Repo: repo}
}

// tenantConfigResponse is the public subset of a tenant a landing page
// needs to render itself. Notification targets stay server-side.
type tenantConfigResponse struct {
	Slug       string             `json:"slug"`
	Name       string             `json:"name"`
	Active     bool               `json:"active"`
	FormFields []entity.FormField `json:"form_fields"`
}

// HandleGetConfig serves the landing-page config by slug.
func (h *TenantHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	tenant, err := h.Repo.FindBySlug(r.Context(), slug)
	if err != nil {
		logrus.WithError(err).WithField("slug", slug).Error("tenant lookup failed")
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{Success: false, Error: "일시적인 오류가 발생했습니다."})
		return
	}
	if tenant == nil {
		writeJSON(w, http.StatusNotFound, SubmitResponse{Success: false, Error: "존재하지 않는 페이지입니다."})
		return
	}

	writeJSON(w, http.StatusOK, tenantConfigResponse{
		Slug:       tenant.Slug,
		Name:       tenant.Name,
		Active:     tenant.IsActive(),
		FormFields: tenant.FormFields,
	})
}
