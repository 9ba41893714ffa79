package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moaform/moaform-api/internal/entity"
)

var kst = time.FixedZone("KST", 9*60*60)

// Notifier fans an accepted lead out to every channel the tenant has
// configured. Strictly best-effort: every failure is logged and
// swallowed, and NotifyLead is safe to run in a detached goroutine.
type Notifier struct {
	Chat  ChatService
	Slack SlackService
	SMS   SMSService
	Email EmailService

	// OnError observes one failed delivery per channel. Optional; the
	// fan-out is best-effort with or without it.
	OnError func(channel string)
}

func NewNotifier(chat ChatService, slack SlackService, sms SMSService, email EmailService) *Notifier {
	return &Notifier{Chat: chat, Slack: slack, SMS: sms, Email: email}
}

// NotifyLead dispatches in a fixed channel order. No retries: a failed
// attempt is terminal for that channel and that lead.
func (n *Notifier) NotifyLead(tenant *entity.Tenant, lead *entity.Lead) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("notification fan-out panicked")
		}
	}()

	if n.Chat != nil && tenant.TelegramChatID != "" {
		if err := n.Chat.SendChatMessage(tenant.TelegramChatID, n.chatMessage(tenant, lead)); err != nil {
			n.deliveryFailed("telegram", tenant.ID, err)
		}
	}

	if n.Slack != nil && tenant.SlackChannel != "" {
		if err := n.Slack.PostMessage(tenant.SlackChannel, n.chatMessage(tenant, lead)); err != nil {
			n.deliveryFailed("slack", tenant.ID, err)
		}
	}

	if n.SMS != nil && tenant.SMSEnabled && tenant.SMSRecipient != "" && lead.Phone != "" {
		if err := n.SMS.SendSMS(tenant.SMSRecipient, n.smsBody(tenant, lead)); err != nil {
			n.deliveryFailed("sms", tenant.ID, err)
		}
	}

	if n.Email != nil && tenant.EmailEnabled && tenant.NotifyEmail != "" {
		subject := fmt.Sprintf("[모아폼] 새 리드 알림 - %s", tenant.Name)
		if err := n.Email.SendLeadAlert(tenant.NotifyEmail, subject, n.emailBody(tenant, lead)); err != nil {
			n.deliveryFailed("email", tenant.ID, err)
		}
	}
}

func (n *Notifier) deliveryFailed(channel, tenantID string, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"tenant":  tenantID,
		"channel": channel,
	}).Error("notification failed")
	if n.OnError != nil {
		n.OnError(channel)
	}
}

func (n *Notifier) chatMessage(tenant *entity.Tenant, lead *entity.Lead) string {
	msg := fmt.Sprintf("📩 새 리드 도착\n업체: %s\n이름: %s\n연락처: %s\n시간: %s",
		tenant.Name,
		lead.Name,
		FormatPhone(lead.Phone),
		lead.CreatedAt.In(kst).Format("2006-01-02 15:04"),
	)
	if lead.RecordURL != "" {
		msg += "\n" + lead.RecordURL
	}
	return msg
}

func (n *Notifier) smsBody(tenant *entity.Tenant, lead *entity.Lead) string {
	return fmt.Sprintf("[%s] 새 리드: %s %s", tenant.Name, lead.Name, FormatPhone(lead.Phone))
}

func (n *Notifier) emailBody(tenant *entity.Tenant, lead *entity.Lead) string {
	html := fmt.Sprintf(
		"<h2>새 리드가 도착했습니다</h2><p>업체: %s</p><p>이름: %s</p><p>연락처: %s</p><p>시간: %s</p>",
		tenant.Name,
		lead.Name,
		FormatPhone(lead.Phone),
		lead.CreatedAt.In(kst).Format("2006-01-02 15:04:05"),
	)
	if lead.Email != "" {
		html += fmt.Sprintf("<p>이메일: %s</p>", lead.Email)
	}
	if lead.RecordURL != "" {
		html += fmt.Sprintf(`<p><a href="%s">Airtable에서 보기</a></p>`, lead.RecordURL)
	}
	return html
}
