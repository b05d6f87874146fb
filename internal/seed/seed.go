package seed

import (
	"context"
	"errors"
	"fmt"

	"tea-referrals/internal/domain"
	referralsvc "tea-referrals/internal/service/referral"
)

type customerSeed struct {
	Name         string
	Phone        string
	ReferralCode string
}

// Apply registers demo customers through the engine so every invariant
// (codes, progress, provenance) holds for the seeded rows. Re-running skips
// customers that already exist.
func Apply(ctx context.Context, svc *referralsvc.Service) error {
	seeds := []customerSeed{
		{Name: "John Doe", Phone: "0771234567"},
		{Name: "Mary Perera", Phone: "0719876543", ReferralCode: "JO4567R1"},
		{Name: "Kasun Silva", Phone: "0765551212", ReferralCode: "JO4567R2"},
		{Name: "Nadia Fernando", Phone: "0742224488"},
	}

	for _, s := range seeds {
		_, err := svc.Register(ctx, s.Name, s.Phone, s.ReferralCode)
		if err != nil {
			var duplicateErr *domain.DuplicateCustomerError
			if errors.As(err, &duplicateErr) {
				continue
			}
			return fmt.Errorf("seed %s: %w", s.Name, err)
		}
	}

	return nil
}
