package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Provider names, in selection priority order.
const (
	ProviderGroq     = "groq"
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderNone     = "none"
)

const (
	groqBaseURL     = "https://api.groq.com/openai/v1"
	deepseekBaseURL = "https://api.deepseek.com/v1"
	openaiBaseURL   = "https://api.openai.com/v1"

	groqModel     = "llama-3.3-70b-versatile"
	deepseekModel = "deepseek-chat"
	openaiModel   = "gpt-3.5-turbo"
)

// textProvider is a minimal client for an OpenAI-compatible chat completions
// endpoint. Groq, DeepSeek, and OpenAI all speak this wire format.
type textProvider struct {
	name             string
	model            string
	baseURL          string
	apiKey           string
	insightMaxTokens int
	client           *http.Client
}

func newTextProvider(name, model, baseURL, apiKey string, insightMaxTokens int) (*textProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s: empty api key", name)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%s: invalid base url: %w", name, err)
	}
	return &textProvider{
		name:             name,
		model:            model,
		baseURL:          baseURL,
		apiKey:           apiKey,
		insightMaxTokens: insightMaxTokens,
		client:           http.DefaultClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat sends one system+user exchange and returns the model's text.
func (p *textProvider) chat(system, user string, maxTokens int, temperature float64) (string, error) {
	endpoint := strings.TrimRight(p.baseURL, "/") + "/chat/completions"
	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	buf, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%s status %d: %s", p.name, resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
