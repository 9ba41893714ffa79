package slack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client posts messages through the Slack Web API with a bot token.
type Client struct {
	botToken string
	baseURL  string
	http     *http.Client
}

func NewClient(botToken string) *Client {
	return &Client{
		botToken: botToken,
		baseURL:  "https://slack.com/api",
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func NewClientWithBaseURL(botToken, baseURL string) *Client {
	c := NewClient(botToken)
	c.baseURL = baseURL
	return c
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// PostMessage sends text to the tenant's channel via chat.postMessage.
func (c *Client) PostMessage(channel, text string) error {
	if c.botToken == "" {
		logrus.Warn("⚠️ Slack: bot token not configured")
		return fmt.Errorf("slack not configured")
	}

	payload, err := json.Marshal(postMessageRequest{Channel: channel, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var out postMessageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("slack: decode: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("slack: %s", out.Error)
	}
	return nil
}
