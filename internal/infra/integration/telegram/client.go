package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client is a minimal Telegram Bot API client. One bot serves every
// tenant; the chat id comes from the tenant record.
type Client struct {
	botToken string
	baseURL  string
	http     *http.Client
}

func NewClient(botToken string) *Client {
	return &Client{
		botToken: botToken,
		baseURL:  "https://api.telegram.org",
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func NewClientWithBaseURL(botToken, baseURL string) *Client {
	c := NewClient(botToken)
	c.baseURL = baseURL
	return c
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendChatMessage posts text to the chat. Link previews are disabled so
// the Airtable record URL doesn't unfurl into a card.
func (c *Client) SendChatMessage(chatID, text string) error {
	if c.botToken == "" {
		logrus.Warn("⚠️ Telegram: bot token not configured")
		return fmt.Errorf("telegram not configured")
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	resp, err := c.http.Post(endpoint, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("telegram: decode: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("telegram: %d - %s", resp.StatusCode, out.Description)
	}
	return nil
}
