package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"tea-referrals/internal/domain"
	"tea-referrals/internal/openai"
	"tea-referrals/internal/service/referral"
)

type stubData struct {
	stats     referral.Stats
	customers []domain.Customer
}

func (s *stubData) Summary(context.Context) (referral.Stats, error) {
	return s.stats, nil
}

func (s *stubData) TopReferrers(_ context.Context, n int) ([]domain.Customer, error) {
	if len(s.customers) > n {
		return s.customers[:n], nil
	}
	return s.customers, nil
}

func (s *stubData) RecentCustomers(_ context.Context, n int) ([]domain.Customer, error) {
	return s.customers, nil
}

func (s *stubData) DiscountEarners(context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range s.customers {
		if c.DiscountEarned {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubData) FindByNames(_ context.Context, candidates []string) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range s.customers {
		for _, candidate := range candidates {
			if strings.Contains(strings.ToLower(c.Name), strings.ToLower(candidate)) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

type stubModel struct {
	reply    string
	err      error
	messages []openai.Message
}

func (m *stubModel) Complete(_ context.Context, messages []openai.Message) (string, error) {
	m.messages = messages
	return m.reply, m.err
}

func newTestChat(t *testing.T, data DataSource, model Completer) *Service {
	t.Helper()
	svc, err := New(data, model, nil)
	if err != nil {
		t.Fatalf("new chat service: %v", err)
	}
	svc.now = func() time.Time { return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestAsk_DeterministicCount(t *testing.T) {
	data := &stubData{stats: referral.Stats{Customers: 4}}
	svc := newTestChat(t, data, nil)

	reply := svc.Ask(context.Background(), "how many customers do I have")
	if reply.Path != "rules" {
		t.Fatalf("path = %q, want rules", reply.Path)
	}
	if reply.Text != "You have 4 customers registered in your tea business database." {
		t.Fatalf("text = %q", reply.Text)
	}
}

func TestAsk_ModelAnswersConversational(t *testing.T) {
	data := &stubData{stats: referral.Stats{Customers: 2}}
	model := &stubModel{reply: "Try a first-flush Darjeeling."}
	svc := newTestChat(t, data, model)

	reply := svc.Ask(context.Background(), "what tea do you recommend")
	if reply.Path != "model" {
		t.Fatalf("path = %q, want model", reply.Path)
	}
	if reply.Text != "Try a first-flush Darjeeling." {
		t.Fatalf("text = %q", reply.Text)
	}

	if len(model.messages) == 0 || model.messages[0].Role != openai.RoleSystem {
		t.Fatalf("expected a system prompt first, got %+v", model.messages)
	}
	if !strings.Contains(model.messages[0].Content, `"total_customers": 2`) {
		t.Errorf("digest missing from system prompt: %s", model.messages[0].Content)
	}
	last := model.messages[len(model.messages)-1]
	if last.Role != openai.RoleUser || last.Content != "what tea do you recommend" {
		t.Errorf("last message = %+v", last)
	}
}

func TestAsk_ModelFailureFallsBackToRules(t *testing.T) {
	data := &stubData{stats: referral.Stats{Customers: 7}}
	model := &stubModel{err: &domain.ExternalServiceError{Service: "openai", Err: errors.New("timeout")}}
	svc := newTestChat(t, data, model)

	// Deterministic query whose handler still works after the model dies.
	reply := svc.Ask(context.Background(), "customer count please, Darjeeling")
	if reply.Text == "" {
		t.Fatal("empty reply")
	}
	if reply.Path != "rules" {
		t.Fatalf("path = %q", reply.Path)
	}

	// Conversational query with a dead model drops to generic help.
	reply = svc.Ask(context.Background(), "what do you think about oolong")
	if reply.Path != "help" {
		t.Fatalf("path = %q, want help", reply.Path)
	}
	if !strings.Contains(reply.Text, "I can help you with your tea business!") {
		t.Fatalf("text = %q", reply.Text)
	}
}

func TestAsk_DisabledModelUsesFallback(t *testing.T) {
	data := &stubData{
		stats: referral.Stats{Customers: 1},
		customers: []domain.Customer{
			{ID: "AL1234", Name: "Alice Brown", Phone: "0711111234"},
		},
	}
	svc := newTestChat(t, data, nil)

	// Routed conversational (names a customer), but with no model the
	// deterministic handlers get a chance before the help text.
	reply := svc.Ask(context.Background(), "tell me the summary")
	if reply.Path != "rules" && reply.Path != "fallback" {
		t.Fatalf("path = %q", reply.Path)
	}
	if !strings.Contains(reply.Text, "Tea Business Statistics") {
		t.Fatalf("text = %q", reply.Text)
	}
}

func TestAsk_HistoryBookkeeping(t *testing.T) {
	data := &stubData{}
	svc := newTestChat(t, data, nil)

	if reply := svc.Ask(context.Background(), "   "); reply.Text == "" {
		t.Fatal("empty query should still get a nudge")
	}
	if len(svc.History()) != 0 {
		t.Fatalf("blank query must not touch history, got %d turns", len(svc.History()))
	}

	svc.Ask(context.Background(), "how many customers")
	history := svc.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Role != openai.RoleUser || history[1].Role != openai.RoleAssistant {
		t.Fatalf("history roles = %+v", history)
	}
}

func TestAsk_HistoryWindowSlides(t *testing.T) {
	data := &stubData{}
	svc := newTestChat(t, data, nil)

	for i := 0; i < 30; i++ {
		svc.Ask(context.Background(), fmt.Sprintf("stats run %d", i))
	}

	history := svc.History()
	if len(history) > maxHistoryTurns+1 {
		t.Fatalf("history grew to %d turns", len(history))
	}
	// The oldest turns must have been dropped.
	for _, m := range history {
		if strings.Contains(m.Content, "stats run 0") && m.Role == openai.RoleUser {
			t.Fatal("oldest turn still present")
		}
	}
}

func TestDigest_NamedCustomerOnly(t *testing.T) {
	data := &stubData{
		stats: referral.Stats{Customers: 2, DiscountEarners: 1},
		customers: []domain.Customer{
			{ID: "AL1234", Name: "Alice Brown", ReferralsCompleted: 3, DiscountEarned: true, RegisteredAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "BO5678", Name: "Bob Smith", ReferralsCompleted: 0},
		},
	}
	svc := newTestChat(t, data, nil)

	digestJSON, err := svc.businessDigest(context.Background(), "is Alice doing well?")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if !strings.Contains(digestJSON, "Alice Brown") {
		t.Errorf("named customer missing: %s", digestJSON)
	}
	if strings.Contains(digestJSON, "Bob Smith") {
		t.Errorf("unnamed customer leaked into digest: %s", digestJSON)
	}

	// Without a performance question there is no top-referrer section.
	if strings.Contains(digestJSON, "top_referrers") {
		t.Errorf("unexpected top referrers: %s", digestJSON)
	}

	digestJSON, err = svc.businessDigest(context.Background(), "who is performing best?")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if !strings.Contains(digestJSON, "top_referrers") {
		t.Errorf("top referrers missing: %s", digestJSON)
	}
}
