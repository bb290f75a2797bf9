package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIGenerator struct {
	responsesURL string
	model        string
	apiKey       string
	client       *http.Client
}

func newOpenAIGenerator(cfg Config) *openAIGenerator {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	return &openAIGenerator{
		responsesURL: base + "/responses",
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		client:       cfg.HTTPClient,
	}
}

func (g *openAIGenerator) generate(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":        g.model,
		"instructions": system,
		"input":        user,
	})
	if err != nil {
		return "", fmt.Errorf("marshal responses request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.responsesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build responses request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	res, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("responses request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("responses request status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode responses reply: %w", err)
	}
	if strings.TrimSpace(payload.OutputText) != "" {
		return payload.OutputText, nil
	}
	for _, item := range payload.Output {
		for _, content := range item.Content {
			if strings.TrimSpace(content.Text) != "" {
				return content.Text, nil
			}
		}
	}
	return "", errEmptyReply
}
