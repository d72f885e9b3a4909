// Package gemini implements llm.Client against the Google Generative
// Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"design-insight-backend/internal/llm"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"
)

// Client implements llm.Client using the Gemini generateContent endpoint.
// The API key is supplied per request, not held by the client.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Gemini client. Model defaults to gemini-1.5-flash;
// the request timeout is tunable via GEMINI_TIMEOUT_SECONDS.
func NewClient(model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		baseURL:    defaultBaseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// AnalyzeImage sends the screenshot with the critique prompt and returns the
// model's raw text.
func (c *Client) AnalyzeImage(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	if strings.TrimSpace(input.APIKey) == "" {
		return "", llm.ErrInvalidAPIKey
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []contentPart{
				{InlineData: &inlineData{MIMEType: input.MIMEType, Data: input.ImageBase64}},
				{Text: BuildPrompt(input.Options)},
			},
		}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(input.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("gemini request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini response decode: %w", err)
	}

	if err := translateError(resp.StatusCode, parsed); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text.String(), nil
}

// translateError maps provider failures to the sentinel errors the handler
// turns into user-facing messages.
func translateError(status int, parsed generateResponse) error {
	if parsed.Error != nil {
		msg := parsed.Error.Message
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden,
			strings.Contains(msg, "API key") || strings.Contains(msg, "API_KEY"):
			return llm.ErrInvalidAPIKey
		case status == http.StatusTooManyRequests || parsed.Error.Status == "RESOURCE_EXHAUSTED":
			return llm.ErrRateLimited
		default:
			return fmt.Errorf("gemini error %d: %s", parsed.Error.Code, msg)
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("gemini status %d", status)
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return llm.ErrSafetyBlocked
	}
	if len(parsed.Candidates) == 0 {
		return fmt.Errorf("gemini returned no candidates")
	}
	if parsed.Candidates[0].FinishReason == "SAFETY" {
		return llm.ErrSafetyBlocked
	}
	return nil
}
