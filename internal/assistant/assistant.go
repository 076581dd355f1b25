package assistant

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mobilitylab/taxi-insights/internal/config"
)

// Modes of operation. The mode is fixed at construction time and never
// changes for the process lifetime.
const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Assistant answers free-text questions about the trips dataset by
// translating them to SQL and turning query results into prose. Its public
// methods never fail: every provider error degrades to the deterministic
// mock responder, so callers always get text back.
type Assistant struct {
	provider *textProvider
	name     string
	mode     string
	log      *zap.Logger
}

// candidate pairs a credential with the constructor it enables.
type candidate struct {
	name       string
	credential string
	construct  func() (*textProvider, error)
}

// New selects a provider by credential presence, in fixed priority order:
// Groq, then DeepSeek, then OpenAI, then mock. A constructor failure for a
// present credential falls through silently to the next candidate. The
// Gemini credential is acknowledged but never selected.
func New(creds config.Credentials, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}

	if creds.GeminiKey != "" {
		log.Debug("gemini credential present but not part of the selection chain")
	}

	candidates := []candidate{
		{
			name:       ProviderGroq,
			credential: creds.GroqKey,
			construct: func() (*textProvider, error) {
				return newTextProvider(ProviderGroq, groqModel, groqBaseURL, creds.GroqKey, 600)
			},
		},
		{
			name:       ProviderDeepSeek,
			credential: creds.DeepSeekKey,
			construct: func() (*textProvider, error) {
				return newTextProvider(ProviderDeepSeek, deepseekModel, deepseekBaseURL, creds.DeepSeekKey, 400)
			},
		},
		{
			name:       ProviderOpenAI,
			credential: creds.OpenAIKey,
			construct: func() (*textProvider, error) {
				return newTextProvider(ProviderOpenAI, openaiModel, openaiBaseURL, creds.OpenAIKey, 400)
			},
		},
	}

	return fromCandidates(candidates, log)
}

// fromCandidates runs the selection chain: first candidate with a present
// credential and a working constructor wins.
func fromCandidates(candidates []candidate, log *zap.Logger) *Assistant {
	for _, c := range candidates {
		if c.credential == "" {
			continue
		}
		p, err := c.construct()
		if err != nil {
			log.Warn("provider setup failed, falling through",
				zap.String("provider", c.name), zap.Error(err))
			continue
		}
		log.Info("connected to provider", zap.String("provider", c.name))
		return &Assistant{provider: p, name: c.name, mode: ModeLive, log: log}
	}

	log.Warn("no provider available, running in mock mode")
	return &Assistant{name: ProviderNone, mode: ModeMock, log: log}
}

// Provider returns the selected provider name ("none" in mock mode).
func (a *Assistant) Provider() string {
	return a.name
}

// Mode returns "live" or "mock".
func (a *Assistant) Mode() string {
	return a.mode
}

// TextToSQL converts a natural-language question into a SQL query string.
// The result is returned verbatim without validation; the query store is
// the arbiter of whether it runs. Always returns a query, never an error.
func (a *Assistant) TextToSQL(question string) string {
	if a.mode == ModeMock {
		return mockSQL(question)
	}

	raw, err := a.provider.chat(sqlSystemPrompt, question, 250, 0.1)
	if err != nil {
		a.log.Error("text-to-sql call failed, using mock rules",
			zap.String("provider", a.name), zap.Error(err))
		return mockSQL(question)
	}

	return stripFences(raw)
}

// GenerateInsight turns a query result and the original question into a
// short prose answer. Provider failures are absorbed: the reply degrades to
// mock content behind a warning prefix instead of an error.
func (a *Assistant) GenerateInsight(contextData, question string) string {
	if a.mode == ModeMock {
		return mockInsight(question)
	}

	userPrompt := buildInsightUserPrompt(contextData, question)
	reply, err := a.provider.chat(insightSystemPrompt, userPrompt, a.provider.insightMaxTokens, 0.4)
	if err != nil {
		a.log.Error("insight call failed, degrading to mock",
			zap.String("provider", a.name), zap.Error(err))
		return a.degradedInsight(err, question)
	}
	return reply
}

// degradedInsight classifies a provider call failure and wraps the mock
// answer with a matching warning prefix.
func (a *Assistant) degradedInsight(err error, question string) string {
	msg := err.Error()
	lower := strings.ToLower(msg)
	upper := strings.ToUpper(a.name)

	switch {
	case strings.Contains(lower, "quota") || strings.Contains(lower, "limit") || strings.Contains(lower, "rate"):
		return fmt.Sprintf("**⚠️ %s quota exceeded.**\n\n%s", upper, mockInsight(question))
	case strings.Contains(msg, "402") || strings.Contains(lower, "insufficient"):
		return fmt.Sprintf("**⚠️ %s balance insufficient.**\n\n%s", upper, mockInsight(question))
	default:
		return fmt.Sprintf("**❌ API Error:** %s\n\n%s", truncate(msg, 100), mockInsight(question))
	}
}

// stripFences removes surrounding markdown code fences (and a leading sql
// language tag) from a model reply.
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return strings.TrimSpace(s)
	}
	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return strings.TrimSpace(s)
	}
	body := parts[1]
	body = strings.TrimPrefix(body, "sql\n")
	body = strings.TrimPrefix(body, "sql ")
	return strings.TrimSpace(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
