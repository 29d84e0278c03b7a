package course

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider manages enrollments on the external learning platform.
type Provider interface {
	Enroll(ctx context.Context, orderRef, email, offerId, tariffCode string) error
	Cancel(ctx context.Context, orderRef, reason string) error
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

type enrollRequest struct {
	OrderRef string `json:"order_ref"`
	Email    string `json:"email"`
	// OfferId is the provider-native identifier; TariffCode is the fallback
	// the provider resolves when no offer id is configured.
	OfferId    string `json:"offer_id,omitempty"`
	TariffCode string `json:"tariff_code,omitempty"`
}

type cancelRequest struct {
	OrderRef string `json:"order_ref"`
	Reason   string `json:"reason"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) Enroll(ctx context.Context, orderRef, email, offerId, tariffCode string) error {
	return c.post(ctx, "/v1/enrollments", enrollRequest{
		OrderRef:   orderRef,
		Email:      email,
		OfferId:    offerId,
		TariffCode: tariffCode,
	})
}

func (c *Client) Cancel(ctx context.Context, orderRef, reason string) error {
	return c.post(ctx, "/v1/enrollments/cancel", cancelRequest{
		OrderRef: orderRef,
		Reason:   reason,
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
		return fmt.Errorf("course request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("course error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if !apiResp.Success {
		return fmt.Errorf("course rejected request: %s", apiResp.Message)
	}

	return nil
}
