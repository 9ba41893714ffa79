package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/moaform/moaform-api/internal/config"
)

type HealthHandler struct {
	Config    *config.Config
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{Config: cfg, StartTime: time.Now()}
}

// Handle reports which collaborators are configured. All of them are
// external SaaS APIs, so "configured" is the strongest check that makes
// sense without burning their rate limits on every probe.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{
		"airtable": configured(h.Config.AirtableAPIKey != "" && h.Config.AirtableBaseID != ""),
		"telegram": configured(h.Config.TelegramBotToken != ""),
		"slack":    configured(h.Config.SlackBotToken != ""),
		"sms":      configured(h.Config.AligoAPIKey != ""),
		"smtp":     configured(h.Config.MailHost != ""),
		"kakao":    configured(h.Config.KakaoRESTKey != ""),
	}

	status := "healthy"
	if deps["airtable"] != "configured" {
		// Without the store nothing can be admitted.
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       fmt.Sprintf("%.0fs", time.Since(h.StartTime).Seconds()),
		Dependencies: deps,
	})
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
