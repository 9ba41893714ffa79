package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client handles the Kakao OAuth flow: authorize URL, code-for-token
// exchange and user-info lookup.
type Client struct {
	restKey     string
	redirectURI string
	authURL     string
	apiURL      string
	http        *http.Client
}

func NewClient(restKey, redirectURI string) *Client {
	return &Client{
		restKey:     restKey,
		redirectURI: redirectURI,
		authURL:     "https://kauth.kakao.com",
		apiURL:      "https://kapi.kakao.com",
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

func NewClientWithBaseURLs(restKey, redirectURI, authURL, apiURL string) *Client {
	c := NewClient(restKey, redirectURI)
	c.authURL = authURL
	c.apiURL = apiURL
	return c
}

// AuthorizeURL builds the login redirect target for one state token.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.restKey)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("response_type", "code")
	q.Set("state", state)
	return c.authURL + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode trades the callback code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.restKey)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("kakao token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kakao token: %d - %s", resp.StatusCode, string(body))
	}

	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("kakao token: decode: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("kakao token: empty access token")
	}
	return out.AccessToken, nil
}

// FetchUser reads the logged-in user's profile with the access token.
func (c *Client) FetchUser(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v2/user/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kakao user request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao user: %d - %s", resp.StatusCode, string(body))
	}

	var out userResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("kakao user: decode: %w", err)
	}

	return &UserInfo{
		ID:       fmt.Sprintf("%d", out.ID),
		Nickname: out.KakaoAccount.Profile.Nickname,
		Email:    out.KakaoAccount.Email,
		Phone:    out.KakaoAccount.PhoneNumber,
	}, nil
}
