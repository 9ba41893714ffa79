package aligo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client sends SMS through the Aligo gateway (form-encoded API).
type Client struct {
	apiKey  string
	userID  string
	sender  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, userID, sender string) *Client {
	return &Client{
		apiKey:  apiKey,
		userID:  userID,
		sender:  sender,
		baseURL: "https://apis.aligo.in",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func NewClientWithBaseURL(apiKey, userID, sender, baseURL string) *Client {
	c := NewClient(apiKey, userID, sender)
	c.baseURL = baseURL
	return c
}

type sendResponse struct {
	ResultCode int    `json:"result_code"`
	Message    string `json:"message"`
	MsgID      int    `json:"msg_id,omitempty"`
}

// SendSMS delivers body to phone. Aligo reports success as result_code 1.
func (c *Client) SendSMS(phone, body string) error {
	if c.apiKey == "" || c.userID == "" {
		logrus.Warn("⚠️ Aligo: API key not configured")
		return fmt.Errorf("aligo not configured")
	}

	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("user_id", c.userID)
	form.Set("sender", c.sender)
	form.Set("receiver", phone)
	form.Set("msg", body)

	resp, err := c.http.Post(c.baseURL+"/send/", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("aligo request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("aligo: decode: %w", err)
	}
	if out.ResultCode != 1 {
		return fmt.Errorf("aligo: %d - %s", out.ResultCode, out.Message)
	}
	return nil
}
