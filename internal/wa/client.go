package wa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the messaging gateway's HTTP API (Evolution-style:
// one named instance per connected WhatsApp number).
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type sendTextReq struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// SendText sends one outbound message through the given instance.
func (c *Client) SendText(ctx context.Context, instance, number, text string) error {
	if c.HTTP == nil {
		return errors.New("wa: http client is nil")
	}

	b, err := json.Marshal(sendTextReq{Number: number, Text: text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/message/sendText/%s", c.BaseURL, instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("wa: send failed: %s", msg)
	}
	return nil
}
