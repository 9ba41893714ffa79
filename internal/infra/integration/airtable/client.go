package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the Airtable REST API for one base. All business
// records (tenants, leads, blacklist) live there; we own no datastore.
type Client struct {
	baseURL string
	baseID  string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseID string) *Client {
	return &Client{
		baseURL: "https://api.airtable.com/v0",
		baseID:  baseID,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL points the client at a different API host.
func NewClientWithBaseURL(apiKey, baseID, baseURL string) *Client {
	c := NewClient(apiKey, baseID)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// ListRecords fetches records from table, optionally filtered with an
// Airtable formula. maxRecords <= 0 means no limit parameter.
func (c *Client) ListRecords(ctx context.Context, table, filterFormula string, maxRecords int) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))

	q := url.Values{}
	if filterFormula != "" {
		q.Set("filterByFormula", filterFormula)
	}
	if maxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(maxRecords))
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airtable list %s: %d - %s", table, resp.StatusCode, string(body))
	}

	var out listResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("airtable list %s: decode: %w", table, err)
	}
	return out.Records, nil
}

// CreateRecord inserts one record. Typecast is enabled so select/number
// columns accept string values from the form payload.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]interface{}) (*Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))

	payload, err := json.Marshal(writeRequest{Fields: fields, Typecast: true})
	if err != nil {
		return nil, fmt.Errorf("airtable create %s: marshal: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airtable create %s: %d - %s", table, resp.StatusCode, string(body))
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("airtable create %s: decode: %w", table, err)
	}
	return &rec, nil
}

// UpdateRecord patches the given fields of one record.
func (c *Client) UpdateRecord(ctx context.Context, table, recordID string, fields map[string]interface{}) (*Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table), recordID)

	payload, err := json.Marshal(writeRequest{Fields: fields, Typecast: true})
	if err != nil {
		return nil, fmt.Errorf("airtable update %s: marshal: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airtable update %s/%s: %d - %s", table, recordID, resp.StatusCode, string(body))
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("airtable update %s: decode: %w", table, err)
	}
	return &rec, nil
}

// RecordURL is the browser URL of a record, for notification messages.
func (c *Client) RecordURL(table, recordID string) string {
	return fmt.Sprintf("https://airtable.com/%s/%s/%s", c.baseID, table, recordID)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// EscapeFormulaValue escapes a string literal for use inside a
// single-quoted filterByFormula expression.
func EscapeFormulaValue(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
