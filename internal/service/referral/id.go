package referral

import (
	"fmt"
	"regexp"
	"strings"

	"tea-referrals/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// codePattern is the external wire format for referral codes: two letters,
// four digits, then R and the code slot 1-3, e.g. JO7890R1.
var codePattern = regexp.MustCompile(`^[A-Z]{2}\d{4}R[1-3]$`)

// GenerateCustomerID derives the six-character customer ID: the first two
// letters of the name (padded with X) plus the last four digits of the phone
// (padded with 0). Deterministic; collisions are treated as duplicates.
func GenerateCustomerID(name, phone string) string {
	letters := keepLetters(strings.TrimSpace(name))
	if len(letters) > 2 {
		letters = letters[:2]
	}
	for len(letters) < 2 {
		letters += "X"
	}

	digits := keepDigits(strings.TrimSpace(phone))
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	for len(digits) < 4 {
		digits = "0" + digits
	}

	return strings.ToUpper(letters) + digits
}

// GenerateReferralCodes produces the three codes owned by a customer.
func GenerateReferralCodes(customerID string) []string {
	codes := make([]string, 0, domain.CodesPerCustomer)
	for i := 1; i <= domain.CodesPerCustomer; i++ {
		codes = append(codes, fmt.Sprintf("%sR%d", customerID, i))
	}
	return codes
}

// ValidateInput checks registration input and returns the normalized name
// (title-cased) and phone (digits only). Every violated rule is reported.
func ValidateInput(name, phone string) (string, string, error) {
	var problems []string

	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		problems = append(problems, "Name must be at least 2 characters")
	}

	digits := keepDigits(phone)
	if len(digits) < 4 {
		problems = append(problems, "Phone number must have at least 4 digits")
	}

	if len(problems) > 0 {
		return "", "", &domain.ValidationError{Problems: problems}
	}

	return cases.Title(language.English).String(trimmed), digits, nil
}

func keepLetters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
