// Package ai HTTP клиент к Messages API текстовой модели.
// Ответы модели считаются недоверенными и разбираются на стороне сервиса.
package ai

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

	"worththehype/pkg/metrics"
)

const apiVersion = "2023-06-01"

var ErrEmptyResponse = errors.New("model returned no text")

const credibilitySystemPrompt = `You are a review authenticity analyst for a restaurant discovery platform.
Analyse the review text and respond with ONLY valid JSON, no markdown, no explanation outside the JSON.
JSON shape:
{
  "tag": "genuine" | "low_confidence" | "promotional",
  "confidence": <integer 0-100>,
  "signals": [<up to 3 short strings explaining your reasoning>]
}

Definitions:
- "genuine": First-hand language, specific dishes/details/timing, balanced or nuanced tone. confidence 70-100.
- "low_confidence": Vague, very short, or lacks specific experience. Could be real but hard to verify. confidence 40-69.
- "promotional": Marketing tone, excessive superlatives without specifics, reads like advertising copy. confidence 0-39.

Be conservative: default to low_confidence when uncertain. Never call a review fake.`

const summarySystemPrompt = `You are an impartial analyst summarising community restaurant reviews for a food discovery app.
Your output must follow these rules exactly:
- 2-3 sentences maximum
- No emojis, no bullet points, no headings
- No opinions of your own, only patterns from the reviews
- No hype language ("amazing", "fantastic", "must-visit")
- Focus on: what people praise, what they criticise, any recurring patterns
- Write in neutral, editorial English
- Never mention reviewer names or personal details
- If fewer than 3 reviews exist, note that the sample is small`

type Config struct {
	URL                  string
	APIKey               string
	Model                string
	Timeout              time.Duration
	CredibilityMaxTokens int
	SummaryMaxTokens     int
}

// Client реализует infrastructure.TextAnalyzer и infrastructure.Summarizer
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *Client) AnalyzeCredibility(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Analyse this review:\n%q", text)
	return c.complete(ctx, "credibility", credibilitySystemPrompt, prompt, c.cfg.CredibilityMaxTokens)
}

func (c *Client) Summarize(ctx context.Context, totalReviews int, corpus string) (string, error) {
	prompt := fmt.Sprintf("Summarise the following %d reviews for a restaurant:\n\n%s", totalReviews, corpus)
	return c.complete(ctx, "summary", summarySystemPrompt, prompt, c.cfg.SummaryMaxTokens)
}

func (c *Client) complete(ctx context.Context, operation, system, prompt string, maxTokens int) (string, error) {
	start := time.Now()
	text, err := c.do(ctx, system, prompt, maxTokens)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAIRequest(operation, status, time.Since(start))

	return text, err
}

func (c *Client) do(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", apiVersion)
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal model response: %w", err)
	}

	if len(parsed.Content) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(parsed.Content[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
