package domain

import "time"

// Sale is an append-only purchase record. Nothing in the referral core reads
// it back except the per-customer listing.
type Sale struct {
	ID               string    `json:"id"`
	CustomerID       string    `json:"customerId"`
	CustomerName     string    `json:"customerName"`
	SaleDate         time.Time `json:"saleDate"`
	Items            string    `json:"items"`
	AmountCents      int64     `json:"amountCents"`
	DiscountApplied  bool      `json:"discountApplied"`
	DiscountCents    int64     `json:"discountCents"`
	ReferralCodeUsed string    `json:"referralCodeUsed,omitempty"`
	PaymentMethod    string    `json:"paymentMethod,omitempty"`
}
