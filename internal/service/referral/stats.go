package referral

import (
	"context"
	"sort"
	"strings"

	"tea-referrals/internal/domain"
)

// Stats summarizes both stores for the reporting layer.
type Stats struct {
	Customers       int `json:"customers"`
	Codes           int `json:"codes"`
	UsedCodes       int `json:"usedCodes"`
	DiscountEarners int `json:"discountEarners"`
}

// Summary returns aggregate counts over customers and the code ledger.
func (s *Service) Summary(ctx context.Context) (Stats, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	counts, err := s.codes.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Customers: len(customers),
		Codes:     counts.Total,
		UsedCodes: counts.Used,
	}
	for _, c := range customers {
		if c.DiscountEarned {
			stats.DiscountEarners++
		}
	}
	return stats, nil
}

// TopReferrers returns up to n customers ordered by completed referrals,
// ties kept in insertion order.
func (s *Service) TopReferrers(ctx context.Context, n int) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].ReferralsCompleted > customers[j].ReferralsCompleted
	})
	if len(customers) > n {
		customers = customers[:n]
	}
	return customers, nil
}

// RecentCustomers returns the last n registered customers in registration order.
func (s *Service) RecentCustomers(ctx context.Context, n int) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(customers) > n {
		customers = customers[len(customers)-n:]
	}
	return customers, nil
}

// DiscountEarners returns every customer who has earned the discount.
func (s *Service) DiscountEarners(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Customer
	for _, c := range customers {
		if c.DiscountEarned {
			out = append(out, c)
		}
	}
	return out, nil
}

// FindByNames returns customers whose name contains any of the candidate
// words, case-insensitive.
func (s *Service) FindByNames(ctx context.Context, candidates []string) ([]domain.Customer, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Customer
	for _, c := range customers {
		name := strings.ToLower(c.Name)
		for _, candidate := range candidates {
			if strings.Contains(name, strings.ToLower(candidate)) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}
