package chat

import (
	"context"
	"fmt"
	"strings"
)

// answerFromRules tries the deterministic handlers in a fixed phrase order
// and returns "" when no handler claims the query.
func (s *Service) answerFromRules(ctx context.Context, query string) string {
	lowered := strings.ToLower(query)

	switch {
	case containsAnyPhrase(lowered, "how many customers", "total customers", "customer count"):
		return s.customerCount(ctx)
	case containsAnyPhrase(lowered, "customers with discount", "discounts", "discount earned"):
		return s.discountCustomers(ctx)
	case containsAnyPhrase(lowered, "top referrer", "best referrer", "most referral"):
		return s.topReferrers(ctx)
	case containsAnyPhrase(lowered, "recent", "recently", "new customer", "latest"):
		return s.recentCustomers(ctx)
	case containsAnyPhrase(lowered, "referral code", "codes used", "referral usage"):
		return s.referralStatus(ctx)
	case containsAnyPhrase(lowered, "success rate", "conversion", "percentage"):
		return s.successRates(ctx)
	case containsAnyPhrase(lowered, "find customer", "search customer", "customer named"):
		return s.findCustomer(ctx, query)
	case containsAnyPhrase(lowered, "statistics", "stats", "overview", "summary"):
		return s.generalStats(ctx)
	}
	return ""
}

func containsAnyPhrase(lowered string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

func (s *Service) customerCount(ctx context.Context) string {
	stats, err := s.data.Summary(ctx)
	if err != nil {
		s.logger.Printf("chat: summary: %v", err)
		return ""
	}
	if stats.Customers == 0 {
		return "You have no customers registered yet."
	}
	return fmt.Sprintf("You have %d customers registered in your tea business database.", stats.Customers)
}

func (s *Service) discountCustomers(ctx context.Context) string {
	stats, err := s.data.Summary(ctx)
	if err != nil {
		s.logger.Printf("chat: summary: %v", err)
		return ""
	}
	if stats.Customers == 0 {
		return "No customers registered yet."
	}
	earners, err := s.data.DiscountEarners(ctx)
	if err != nil {
		s.logger.Printf("chat: discount earners: %v", err)
		return ""
	}
	if len(earners) == 0 {
		return fmt.Sprintf("No customers have earned discounts yet out of %d total customers.", stats.Customers)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Customers with discounts (%d out of %d):\n\n", len(earners), stats.Customers)
	for _, c := range earners {
		fmt.Fprintf(&b, "• %s (ID: %s) - %d/3 referrals completed\n", c.Name, c.ID, c.ReferralsCompleted)
	}
	return b.String()
}

func (s *Service) topReferrers(ctx context.Context) string {
	top, err := s.data.TopReferrers(ctx, 5)
	if err != nil {
		s.logger.Printf("chat: top referrers: %v", err)
		return ""
	}
	if len(top) == 0 {
		return "No customers registered yet."
	}

	var b strings.Builder
	b.WriteString("Top 5 Referrers:\n\n")
	for i, c := range top {
		status := "In Progress"
		if c.DiscountEarned {
			status = "DISCOUNT EARNED"
		}
		fmt.Fprintf(&b, "%d. %s - %d/3 referrals (%s)\n", i+1, c.Name, c.ReferralsCompleted, status)
	}
	return b.String()
}

func (s *Service) recentCustomers(ctx context.Context) string {
	recent, err := s.data.RecentCustomers(ctx, 5)
	if err != nil {
		s.logger.Printf("chat: recent customers: %v", err)
		return ""
	}
	if len(recent) == 0 {
		return "No customers registered yet."
	}

	var b strings.Builder
	b.WriteString("Recent customers (last 5):\n\n")
	for _, c := range recent {
		fmt.Fprintf(&b, "• %s (ID: %s) - Registered: %s\n", c.Name, c.ID, c.RegisteredAt.Format("2006-01-02"))
	}
	return b.String()
}

func (s *Service) referralStatus(ctx context.Context) string {
	stats, err := s.data.Summary(ctx)
	if err != nil {
		s.logger.Printf("chat: summary: %v", err)
		return ""
	}
	if stats.Codes == 0 {
		return "No referral codes generated yet."
	}

	available := stats.Codes - stats.UsedCodes
	var b strings.Builder
	b.WriteString("Referral Code Status:\n\n")
	fmt.Fprintf(&b, "• Total referral codes: %d\n", stats.Codes)
	fmt.Fprintf(&b, "• Used codes: %d\n", stats.UsedCodes)
	fmt.Fprintf(&b, "• Available codes: %d\n", available)
	fmt.Fprintf(&b, "• Usage rate: %.1f%%\n", percent(stats.UsedCodes, stats.Codes))
	return b.String()
}

func (s *Service) successRates(ctx context.Context) string {
	stats, err := s.data.Summary(ctx)
	if err != nil {
		s.logger.Printf("chat: summary: %v", err)
		return ""
	}
	if stats.Customers == 0 {
		return "No data available for rate calculations."
	}

	var b strings.Builder
	b.WriteString("Success Rates:\n\n")
	fmt.Fprintf(&b, "• Discount Achievement Rate: %.1f%%\n", percent(stats.DiscountEarners, stats.Customers))
	if stats.Codes > 0 {
		fmt.Fprintf(&b, "• Referral Code Usage Rate: %.1f%%\n", percent(stats.UsedCodes, stats.Codes))
	}
	fmt.Fprintf(&b, "• Customers with Discounts: %d/%d\n", stats.DiscountEarners, stats.Customers)
	return b.String()
}

// searchFillerWords are skipped when pulling a customer name out of a
// search-style query.
var searchFillerWords = map[string]struct{}{
	"find": {}, "customer": {}, "named": {}, "called": {}, "search": {},
	"show": {}, "me": {}, "the": {}, "for": {}, "with": {}, "name": {},
	"who": {}, "is": {},
}

func (s *Service) findCustomer(ctx context.Context, query string) string {
	var candidates []string
	for _, word := range strings.Fields(query) {
		clean := strings.Trim(word, `.,!?;:"()[]`)
		if len(clean) <= 2 {
			continue
		}
		if _, skip := searchFillerWords[strings.ToLower(clean)]; skip {
			continue
		}
		candidates = append(candidates, strings.ToLower(clean))
	}
	if len(candidates) == 0 {
		return "Please specify the customer name you're looking for."
	}

	matches, err := s.data.FindByNames(ctx, candidates)
	if err != nil {
		s.logger.Printf("chat: find by names: %v", err)
		return ""
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No customers found matching '%s'.", strings.Join(candidates, " "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d customer(s):\n\n", len(matches))
	for _, c := range matches {
		fmt.Fprintf(&b, "• %s (ID: %s)\n", c.Name, c.ID)
		fmt.Fprintf(&b, "  Phone: %s\n", c.Phone)
		fmt.Fprintf(&b, "  Referrals: %d/3\n", c.ReferralsCompleted)
		fmt.Fprintf(&b, "  Discount: %s\n\n", yesNo(c.DiscountEarned))
	}
	return b.String()
}

func (s *Service) generalStats(ctx context.Context) string {
	stats, err := s.data.Summary(ctx)
	if err != nil {
		s.logger.Printf("chat: summary: %v", err)
		return ""
	}

	var b strings.Builder
	b.WriteString("Tea Business Statistics:\n\n")
	fmt.Fprintf(&b, "Total Customers: %d\n", stats.Customers)
	fmt.Fprintf(&b, "Total Referral Codes: %d\n", stats.Codes)
	fmt.Fprintf(&b, "Used Referral Codes: %d\n", stats.UsedCodes)
	fmt.Fprintf(&b, "Customers with Discounts: %d\n", stats.DiscountEarners)
	if stats.Customers > 0 {
		fmt.Fprintf(&b, "Discount Rate: %.1f%%\n", percent(stats.DiscountEarners, stats.Customers))
	}
	if stats.Codes > 0 {
		fmt.Fprintf(&b, "Code Usage Rate: %.1f%%\n", percent(stats.UsedCodes, stats.Codes))
	}
	return b.String()
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

const helpText = `I can help you with your tea business! Here are some things you can ask:

Data & Statistics (fast and exact):
- "How many customers do I have?"
- "Show me general statistics"
- "What's my success rate?"
- "Who are my top referrers?"
- "Find customer named [name]"

General Chat (model-powered):
- Ask about tea varieties and recommendations
- Get business advice and tips
- Discuss brewing techniques
- Customer service strategies
`
