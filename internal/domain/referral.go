package domain

import "time"

// CodeStatus tracks the lifecycle of a referral code. Codes are created
// Available and move to Used exactly once; there is no reverse transition.
type CodeStatus string

const (
	CodeAvailable CodeStatus = "Available"
	CodeUsed      CodeStatus = "Used"
)

// CodesPerCustomer is the number of referral codes issued at registration.
const CodesPerCustomer = 3

// DiscountThreshold is the number of redeemed codes that earns the discount.
const DiscountThreshold = 3

// ReferralCode is a single-use token owned by one customer and redeemable by
// exactly one other customer.
type ReferralCode struct {
	Code       string     `json:"code"`
	OwnerID    string     `json:"ownerId"`
	OwnerName  string     `json:"ownerName"`
	OwnerPhone string     `json:"ownerPhone"`
	Status     CodeStatus `json:"status"`
	UsedByID   string     `json:"usedById,omitempty"`
	UsedByName string     `json:"usedByName,omitempty"`
	UsedByPhone string    `json:"usedByPhone,omitempty"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
}

// CodeUsage carries the consumer identity stamped onto a code at redemption.
type CodeUsage struct {
	CustomerID string
	Name       string
	Phone      string
	At         time.Time
}
