package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mobilitylab/taxi-insights/internal/assistant"
	"github.com/mobilitylab/taxi-insights/internal/models"
	"github.com/mobilitylab/taxi-insights/internal/repository"
)

// ChatService orchestrates one question/answer round trip: question to SQL,
// SQL to rows, rows plus question to insight text. Conversation history is
// kept in memory per session and never persisted.
type ChatService struct {
	assistant *assistant.Assistant
	repo      *repository.TripRepository
	log       *zap.Logger

	mu       sync.Mutex
	sessions map[string][]models.ConversationTurn
}

// NewChatService creates a new chat service.
func NewChatService(ai *assistant.Assistant, repo *repository.TripRepository, log *zap.Logger) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{
		assistant: ai,
		repo:      repo,
		log:       log,
		sessions:  make(map[string][]models.ConversationTurn),
	}
}

// NewSession allocates a fresh conversation id.
func (s *ChatService) NewSession() string {
	return uuid.NewString()
}

// History returns the recorded turns for a session, oldest first.
func (s *ChatService) History(sessionID string) []models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.sessions[sessionID]
	out := make([]models.ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// Ask answers a free-text question. A failed query or provider call never
// fails the exchange; it only degrades the answer text.
func (s *ChatService) Ask(sessionID, question string) *models.ChatAnswer {
	if sessionID == "" {
		sessionID = s.NewSession()
	}

	sqlQuery := s.assistant.TextToSQL(question)

	contextData := assistant.NoQueryContext
	var result *models.QueryResult
	if strings.Contains(sqlQuery, "SELECT") && !strings.Contains(sqlQuery, "Error") {
		res, err := s.repo.RunQuery(sqlQuery)
		if err != nil {
			contextData = "SQL execution failed: " + err.Error()
		} else {
			result = res
			contextData = formatResult(res)
		}
	}

	answer := s.assistant.GenerateInsight(contextData, question)

	now := time.Now()
	s.mu.Lock()
	s.sessions[sessionID] = append(s.sessions[sessionID],
		models.ConversationTurn{Role: models.RoleUser, Content: question, CreatedAt: now},
		models.ConversationTurn{Role: models.RoleAssistant, Content: answer, CreatedAt: now},
	)
	s.mu.Unlock()

	return &models.ChatAnswer{
		SessionID: sessionID,
		Answer:    answer,
		SQL:       sqlQuery,
		Result:    result,
	}
}

// formatResult renders a query result as plain text for the insight prompt.
func formatResult(res *models.QueryResult) string {
	var b strings.Builder
	b.WriteString(strings.Join(res.Columns, "\t"))
	b.WriteByte('\n')
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
