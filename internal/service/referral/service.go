package referral

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"tea-referrals/internal/domain"
	"tea-referrals/internal/metrics"
	custrepo "tea-referrals/internal/repository/customer"
	coderepo "tea-referrals/internal/repository/referral"
	salerepo "tea-referrals/internal/repository/sale"
	"github.com/google/uuid"
)

// Service is the referral engine. It is the sole writer of the customer
// store and the referral ledger; callers must serialize concurrent
// registrations externally.
type Service struct {
	customers custrepo.Repository
	codes     coderepo.Repository
	sales     salerepo.Repository
	logger    *log.Logger
	now       func() time.Time
}

// New creates the referral engine over the given stores.
func New(customers custrepo.Repository, codes coderepo.Repository, sales salerepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		customers: customers,
		codes:     codes,
		sales:     sales,
		logger:    logger,
		now:       time.Now,
	}
}

// CodeOwner identifies the issuing customer of a valid code.
type CodeOwner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CodeValidation is the outcome of checking a presented referral code.
// A blank code is valid with no owner; otherwise Reason is set on rejection.
type CodeValidation struct {
	Valid   bool                    `json:"valid"`
	Message string                  `json:"message"`
	Owner   *CodeOwner              `json:"owner,omitempty"`
	Reason  domain.CodeRejectReason `json:"reason,omitempty"`
}

// Registration is the success payload of Register.
type Registration struct {
	CustomerID    string          `json:"customerId"`
	ReferralCodes []string        `json:"referralCodes"`
	Customer      domain.Customer `json:"customer"`
}

// CustomerExists reports whether the ID derived from name and phone already
// occupies the store. Duplicate detection is exact ID collision, nothing
// smarter: two people sharing initials and last four digits will collide.
func (s *Service) CustomerExists(ctx context.Context, name, phone string) (bool, string, error) {
	id := GenerateCustomerID(name, phone)
	_, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, id, nil
		}
		return false, id, err
	}
	return true, id, nil
}

// ValidateReferralCode classifies a presented code. The precedence is fixed:
// blank, then format, then existence, then status.
func (s *Service) ValidateReferralCode(ctx context.Context, raw string) (CodeValidation, error) {
	if strings.TrimSpace(raw) == "" {
		return CodeValidation{Valid: true, Message: "No referral code provided"}, nil
	}

	code := strings.ToUpper(strings.TrimSpace(raw))

	if !codePattern.MatchString(code) {
		return CodeValidation{
			Valid:   false,
			Message: "Invalid referral code format",
			Reason:  domain.CodeBadFormat,
		}, nil
	}

	rec, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return CodeValidation{
				Valid:   false,
				Message: "Referral code not found",
				Reason:  domain.CodeNotFound,
			}, nil
		}
		return CodeValidation{}, err
	}

	if rec.Status == domain.CodeUsed {
		return CodeValidation{
			Valid:   false,
			Message: fmt.Sprintf("Code already used by %s", rec.UsedByName),
			Reason:  domain.CodeAlreadyUsed,
		}, nil
	}

	return CodeValidation{
		Valid:   true,
		Message: fmt.Sprintf("Valid code from %s", rec.OwnerName),
		Owner:   &CodeOwner{ID: rec.OwnerID, Name: rec.OwnerName, Phone: rec.OwnerPhone},
	}, nil
}

// Register runs the registration pipeline: validate input, reject duplicates,
// validate the presented code, create the customer with three fresh codes,
// then redeem the presented code against its owner. The first failing step
// wins and nothing is written on failure.
func (s *Service) Register(ctx context.Context, name, phone, referralCode string) (*Registration, error) {
	cleanName, cleanPhone, err := ValidateInput(name, phone)
	if err != nil {
		metrics.RecordRegistration("validation_failed")
		return nil, err
	}

	exists, customerID, err := s.CustomerExists(ctx, cleanName, cleanPhone)
	if err != nil {
		metrics.RecordRegistration("error")
		return nil, err
	}
	if exists {
		metrics.RecordRegistration("duplicate")
		return nil, &domain.DuplicateCustomerError{ExistingID: customerID}
	}

	referredBy := domain.ReferredByDirect
	var owner *CodeOwner
	if strings.TrimSpace(referralCode) != "" {
		validation, err := s.ValidateReferralCode(ctx, referralCode)
		if err != nil {
			metrics.RecordRegistration("error")
			return nil, err
		}
		if !validation.Valid {
			metrics.RecordRegistration("invalid_code")
			return nil, &domain.InvalidReferralCodeError{
				Code:    strings.ToUpper(strings.TrimSpace(referralCode)),
				Reason:  validation.Reason,
				Message: validation.Message,
			}
		}
		if validation.Owner != nil {
			owner = validation.Owner
			referredBy = fmt.Sprintf("Referred by %s", owner.Name)
		}
	}

	now := s.now()
	customer := domain.Customer{
		ID:           customerID,
		Name:         cleanName,
		Phone:        cleanPhone,
		RegisteredAt: now,
		ReferredBy:   referredBy,
		Status:       domain.CustomerActive,
	}
	if err := s.customers.Insert(ctx, customer); err != nil {
		metrics.RecordRegistration("error")
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, &domain.DuplicateCustomerError{ExistingID: customerID}
		}
		return nil, err
	}

	codeStrings := GenerateReferralCodes(customerID)
	batch := make([]domain.ReferralCode, 0, len(codeStrings))
	for _, code := range codeStrings {
		batch = append(batch, domain.ReferralCode{
			Code:       code,
			OwnerID:    customerID,
			OwnerName:  cleanName,
			OwnerPhone: cleanPhone,
			Status:     domain.CodeAvailable,
		})
	}
	if err := s.codes.InsertBatch(ctx, batch); err != nil {
		metrics.RecordRegistration("error")
		return nil, err
	}

	// The presented code pre-exists registration, so it can never be one of
	// the customer's own fresh codes.
	if owner != nil {
		if _, err := s.Redeem(ctx, referralCode, customerID, cleanName, cleanPhone); err != nil {
			s.logger.Printf("redeem %s for new customer %s: %v", referralCode, customerID, err)
		}
	}

	metrics.RecordRegistration("registered")
	s.logger.Printf("registered customer %s (%s)", customerID, cleanName)

	return &Registration{
		CustomerID:    customerID,
		ReferralCodes: codeStrings,
		Customer:      customer,
	}, nil
}

// Redeem stamps the consumer identity onto a code, marks it Used and
// refreshes the owner's progress. Redeeming an already-Used code is a no-op
// returning the existing record, which keeps progress counts monotonic.
func (s *Service) Redeem(ctx context.Context, rawCode, consumerID, consumerName, consumerPhone string) (*domain.ReferralCode, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))

	rec, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if rec.Status == domain.CodeUsed {
		return rec, nil
	}

	usage := domain.CodeUsage{
		CustomerID: consumerID,
		Name:       consumerName,
		Phone:      consumerPhone,
		At:         s.now(),
	}
	if err := s.codes.MarkUsed(ctx, code, usage); err != nil {
		return nil, err
	}
	metrics.RedemptionsTotal.Inc()

	if err := s.RefreshProgress(ctx, rec.OwnerID); err != nil {
		return nil, err
	}

	updated, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RefreshProgress recounts the owner's Used codes and updates the progress
// fields. The discount flag never reverts once earned.
func (s *Service) RefreshProgress(ctx context.Context, ownerID string) error {
	used, err := s.codes.CountUsedByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	owner, err := s.customers.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}

	discount := owner.DiscountEarned || used >= domain.DiscountThreshold
	if discount && !owner.DiscountEarned {
		s.logger.Printf("%s earned discount (%d/%d referrals completed)", owner.Name, used, domain.DiscountThreshold)
	}

	return s.customers.SetProgress(ctx, ownerID, used, discount)
}

// CodeDetail is one row of a customer's code-status breakdown.
type CodeDetail struct {
	Code       string            `json:"code"`
	Status     domain.CodeStatus `json:"status"`
	UsedInfo   string            `json:"usedInfo"`
	UsedByName string            `json:"usedByName,omitempty"`
	DateUsed   string            `json:"dateUsed,omitempty"`
}

// CustomerDetails is the lookup result: the matched customer and the status
// of every code they own.
type CustomerDetails struct {
	Customer domain.Customer `json:"customer"`
	Codes    []CodeDetail    `json:"codes"`
}

// Lookup finds a customer by ID substring, then name, then phone, and
// returns the first match of the first non-empty stage.
func (s *Service) Lookup(ctx context.Context, term string) (*CustomerDetails, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, &domain.ValidationError{Problems: []string{"search term required"}}
	}

	stages := []func(context.Context, string) ([]domain.Customer, error){
		s.customers.SearchByID,
		s.customers.SearchByName,
		s.customers.SearchByPhone,
	}

	var match *domain.Customer
	for _, stage := range stages {
		found, err := stage(ctx, term)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			match = &found[0]
			break
		}
	}
	if match == nil {
		return nil, domain.ErrNotFound
	}

	codes, err := s.codes.ListByOwner(ctx, match.ID)
	if err != nil {
		return nil, err
	}

	details := make([]CodeDetail, 0, len(codes))
	for _, c := range codes {
		d := CodeDetail{Code: c.Code, Status: c.Status, UsedInfo: "Available for sharing"}
		if c.Status == domain.CodeUsed {
			date := ""
			if c.UsedAt != nil {
				date = c.UsedAt.Format("2006-01-02")
			}
			d.UsedInfo = fmt.Sprintf("Used by %s on %s", c.UsedByName, date)
			d.UsedByName = c.UsedByName
			d.DateUsed = date
		}
		details = append(details, d)
	}

	return &CustomerDetails{Customer: *match, Codes: details}, nil
}

// SaleInput captures an appended sale.
type SaleInput struct {
	CustomerID       string
	Items            string
	AmountCents      int64
	DiscountApplied  bool
	DiscountCents    int64
	ReferralCodeUsed string
	PaymentMethod    string
}

// RecordSale appends a sale to the log and bumps the customer's purchase
// counter. Nothing else in the engine depends on the sales log.
func (s *Service) RecordSale(ctx context.Context, in SaleInput) (*domain.Sale, error) {
	customer, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	rec := domain.Sale{
		ID:               uuid.NewString(),
		CustomerID:       customer.ID,
		CustomerName:     customer.Name,
		SaleDate:         s.now(),
		Items:            in.Items,
		AmountCents:      in.AmountCents,
		DiscountApplied:  in.DiscountApplied,
		DiscountCents:    in.DiscountCents,
		ReferralCodeUsed: in.ReferralCodeUsed,
		PaymentMethod:    in.PaymentMethod,
	}
	if err := s.sales.Insert(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.customers.IncrementPurchases(ctx, customer.ID); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SalesFor lists a customer's sales in recording order.
func (s *Service) SalesFor(ctx context.Context, customerID string) ([]domain.Sale, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.sales.ListByCustomer(ctx, customerID)
}
