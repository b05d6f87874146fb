package domain

import "time"

// CustomerStatus marks whether a customer account is active.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "Active"
	CustomerInactive CustomerStatus = "Inactive"
)

// ReferredByDirect is the provenance value for customers who registered
// without a referral code.
const ReferredByDirect = "Direct Customer"

// Customer represents a registered customer of the referral program.
// ID is derived from name and phone (two letters + four digits) and is the
// key both stores join on.
type Customer struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Phone              string         `json:"phone"`
	RegisteredAt       time.Time      `json:"registeredAt"`
	ReferralsCompleted int            `json:"referralsCompleted"`
	DiscountEarned     bool           `json:"discountEarned"`
	ReferredBy         string         `json:"referredBy"`
	Status             CustomerStatus `json:"status"`
	TotalPurchases     int            `json:"totalPurchases"`
	Notes              string         `json:"notes,omitempty"`
}
