package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tea-referrals/internal/openai"
)

const systemPromptFormat = `You are a helpful assistant for a tea business with a referral system.

Current Business Context:
%s

Guidelines:
- Be friendly and professional
- Focus on tea business topics
- Keep responses concise but helpful
- Use the provided customer data when relevant
- If specific customer data is provided, reference it accurately
- For data-heavy queries, suggest using specific commands like "show me statistics"
- You can discuss tea varieties, brewing methods, business advice
`

type digestCustomer struct {
	Name             string `json:"name"`
	ID               string `json:"id"`
	Referrals        int    `json:"referrals"`
	Discount         string `json:"discount"`
	RegistrationDate string `json:"registration_date"`
}

type digestReferrer struct {
	Name      string `json:"name"`
	Referrals int    `json:"referrals"`
	Discount  string `json:"discount"`
}

// digest is the bounded context handed to the model: aggregates plus, at
// most, the customers the query names. Never the whole table.
type digest struct {
	BusinessType           string           `json:"business_type"`
	TotalCustomers         int              `json:"total_customers"`
	CustomersWithDiscounts int              `json:"customers_with_discounts"`
	ReferralRequirement    string           `json:"referral_requirement"`
	CurrentDate            string           `json:"current_date"`
	RelevantCustomers      []digestCustomer `json:"relevant_customers,omitempty"`
	TopReferrers           []digestReferrer `json:"top_referrers,omitempty"`
}

// businessDigest summarizes the stores for the system prompt.
func (s *Service) businessDigest(ctx context.Context, query string) (string, error) {
	stats, err := s.data.Summary(ctx)
	if err != nil {
		return "", err
	}

	d := digest{
		BusinessType:           "Tea Business with Referral System",
		TotalCustomers:         stats.Customers,
		CustomersWithDiscounts: stats.DiscountEarners,
		ReferralRequirement:    "3 referrals needed for discount",
		CurrentDate:            s.now().Format("2006-01-02"),
	}

	if names := ExtractNames(query); len(names) > 0 {
		matched, err := s.data.FindByNames(ctx, names)
		if err != nil {
			return "", err
		}
		for _, c := range matched {
			d.RelevantCustomers = append(d.RelevantCustomers, digestCustomer{
				Name:             c.Name,
				ID:               c.ID,
				Referrals:        c.ReferralsCompleted,
				Discount:         yesNo(c.DiscountEarned),
				RegistrationDate: c.RegisteredAt.Format("2006-01-02"),
			})
		}
	}

	lowered := strings.ToLower(query)
	for _, word := range []string{"top", "best", "performing", "leader"} {
		if strings.Contains(lowered, word) {
			top, err := s.data.TopReferrers(ctx, 3)
			if err != nil {
				return "", err
			}
			for _, c := range top {
				d.TopReferrers = append(d.TopReferrers, digestReferrer{
					Name:      c.Name,
					Referrals: c.ReferralsCompleted,
					Discount:  yesNo(c.DiscountEarned),
				})
			}
			break
		}
	}

	encoded, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// askModel delegates to the conversational model with the business digest
// and the most recent turns of history. The caller holds the history lock.
func (s *Service) askModel(ctx context.Context, query string) (string, error) {
	digestJSON, err := s.businessDigest(ctx, query)
	if err != nil {
		return "", err
	}

	messages := []openai.Message{
		{Role: openai.RoleSystem, Content: fmt.Sprintf(systemPromptFormat, digestJSON)},
	}
	recent := s.history
	if len(recent) > modelHistoryTurns {
		recent = recent[len(recent)-modelHistoryTurns:]
	}
	messages = append(messages, recent...)

	return s.model.Complete(ctx, messages)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
