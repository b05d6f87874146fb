package referral

import (
	"errors"
	"testing"

	"tea-referrals/internal/domain"
)

func TestGenerateCustomerID(t *testing.T) {
	cases := []struct {
		name  string
		phone string
		want  string
	}{
		{"John Doe", "0771234567", "JO4567"},
		{"john doe", "077-123-4567", "JO4567"},
		{"  Mary  ", "+94 71 987 6543", "MA6543"},
		{"A", "1234", "AX1234"},
		{"李 X", "9999", "XX9999"},
		{"Bob", "12", "BO0012"},
	}
	for _, tc := range cases {
		if got := GenerateCustomerID(tc.name, tc.phone); got != tc.want {
			t.Errorf("GenerateCustomerID(%q, %q) = %q, want %q", tc.name, tc.phone, got, tc.want)
		}
	}
}

func TestGenerateCustomerID_Deterministic(t *testing.T) {
	first := GenerateCustomerID("Jane Smith", "0711112222")
	second := GenerateCustomerID("Jane Smith", "0711112222")
	if first != second {
		t.Fatalf("same inputs produced %q and %q", first, second)
	}
	if len(first) != 6 {
		t.Fatalf("expected 6-character id, got %q", first)
	}
}

func TestGenerateReferralCodes(t *testing.T) {
	codes := GenerateReferralCodes("JO4567")
	want := []string{"JO4567R1", "JO4567R2", "JO4567R3"}
	if len(codes) != len(want) {
		t.Fatalf("expected %d codes, got %d", len(want), len(codes))
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("code %d = %q, want %q", i, codes[i], want[i])
		}
	}
	for _, code := range codes {
		if !codePattern.MatchString(code) {
			t.Errorf("generated code %q does not match the wire format", code)
		}
	}
}

func TestValidateInput_Normalizes(t *testing.T) {
	name, phone, err := ValidateInput("  john doe ", "077-123 4567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "John Doe" {
		t.Errorf("name = %q, want %q", name, "John Doe")
	}
	if phone != "0771234567" {
		t.Errorf("phone = %q, want %q", phone, "0771234567")
	}
}

func TestValidateInput_ReportsAllProblems(t *testing.T) {
	_, _, err := ValidateInput(" a ", "12x")
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", validationErr.Problems)
	}
}
