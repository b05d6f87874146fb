package chat

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"tea-referrals/internal/domain"
	"tea-referrals/internal/metrics"
	"tea-referrals/internal/openai"
	"tea-referrals/internal/service/referral"
)

const (
	// maxHistoryTurns bounds the sliding conversation window.
	maxHistoryTurns = 20
	// modelHistoryTurns is how much of that window the model sees.
	modelHistoryTurns = 6
)

// DataSource is the read-only slice of the referral engine the chat layer
// needs for digests and deterministic answers.
type DataSource interface {
	Summary(ctx context.Context) (referral.Stats, error)
	TopReferrers(ctx context.Context, n int) ([]domain.Customer, error)
	RecentCustomers(ctx context.Context, n int) ([]domain.Customer, error)
	DiscountEarners(ctx context.Context) ([]domain.Customer, error)
	FindByNames(ctx context.Context, candidates []string) ([]domain.Customer, error)
}

// Completer is the conversational-model collaborator.
type Completer interface {
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

// Service answers free-text queries: deterministic handlers for data
// questions, the model for everything else, degrading model → rules →
// generic help. A nil Completer runs the service in rules-only mode.
type Service struct {
	data   DataSource
	model  Completer
	router *Router
	logger *log.Logger
	now    func() time.Time

	mu      sync.Mutex
	history []openai.Message
}

// New creates the chat service.
func New(data DataSource, model Completer, logger *log.Logger) (*Service, error) {
	router, err := NewRouter()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		data:   data,
		model:  model,
		router: router,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Reply is the answer to a query plus which path produced it.
type Reply struct {
	Text  string `json:"text"`
	Route Route  `json:"route"`
	Path  string `json:"path"` // rules, model, fallback or help
}

// Ask processes one query. Every non-empty query appends exactly one user
// turn and one assistant turn to the history before returning.
func (s *Service) Ask(ctx context.Context, query string) Reply {
	if strings.TrimSpace(query) == "" {
		return Reply{Text: "Please ask me a question about your tea business!", Route: RouteConversational, Path: "help"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, openai.Message{Role: openai.RoleUser, Content: query})
	if len(s.history) > maxHistoryTurns {
		s.history = s.history[len(s.history)-maxHistoryTurns:]
	}

	route := s.router.Classify(query)
	reply := s.answer(ctx, query, route)

	s.history = append(s.history, openai.Message{Role: openai.RoleAssistant, Content: reply.Text})
	metrics.ChatRequestsTotal.WithLabelValues(reply.Path).Inc()
	return reply
}

func (s *Service) answer(ctx context.Context, query string, route Route) Reply {
	if route == RouteDeterministic {
		if text := s.answerFromRules(ctx, query); text != "" {
			return Reply{Text: text, Route: route, Path: "rules"}
		}
	}

	if s.model != nil {
		text, err := s.askModel(ctx, query)
		if err == nil && text != "" {
			return Reply{Text: text, Route: route, Path: "model"}
		}
		if err != nil {
			s.logger.Printf("chat: model call failed, falling back: %v", err)
		}
	}

	if text := s.answerFromRules(ctx, query); text != "" {
		return Reply{Text: text, Route: route, Path: "fallback"}
	}

	return Reply{Text: helpText, Route: route, Path: "help"}
}

// History returns a copy of the conversation window, oldest first.
func (s *Service) History() []openai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]openai.Message, len(s.history))
	copy(out, s.history)
	return out
}
