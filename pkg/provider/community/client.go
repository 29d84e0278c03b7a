package community

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider manages membership in the product's chat community.
type Provider interface {
	Grant(ctx context.Context, memberRef, clubId string, durationDays int, source string) error
	Revoke(ctx context.Context, memberRef, clubId, reason string) error
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

var _ Provider = &Client{}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type grantRequest struct {
	MemberRef    string `json:"member_ref"`
	ClubId       string `json:"club_id"`
	DurationDays int    `json:"duration_days"`
	Source       string `json:"source"`
}

type revokeRequest struct {
	MemberRef string `json:"member_ref"`
	ClubId    string `json:"club_id"`
	Reason    string `json:"reason"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) Grant(ctx context.Context, memberRef, clubId string, durationDays int, source string) error {
	return c.post(ctx, "/v1/members/grant", grantRequest{
		MemberRef:    memberRef,
		ClubId:       clubId,
		DurationDays: durationDays,
		Source:       source,
	})
}

func (c *Client) Revoke(ctx context.Context, memberRef, clubId, reason string) error {
	return c.post(ctx, "/v1/members/revoke", revokeRequest{
		MemberRef: memberRef,
		ClubId:    clubId,
		Reason:    reason,
	})
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("community request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("community error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if !apiResp.Success {
		return fmt.Errorf("community rejected request: %s", apiResp.Message)
	}

	return nil
}
