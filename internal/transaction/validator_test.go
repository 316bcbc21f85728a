package transaction

import (
	"encoding/json"
	"testing"

	"github.com/saldo-pay/saldo_pay/internal/ledger"
)

func strptr(s string) *string { return &s }

func TestValidateNormalizesMovement(t *testing.T) {
	m, err := Validate(Input{Amount: json.Number("500"), Kind: "d", Description: strptr("rent")})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if m.Amount != 500 || m.Kind != ledger.KindDebit || m.Description != "rent" {
		t.Fatalf("unexpected movement: %+v", m)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want error
	}{
		{"missing amount", Input{Kind: "c", Description: strptr("ok")}, ErrInvalidAmount},
		{"fractional amount", Input{Amount: json.Number("1.2"), Kind: "c", Description: strptr("ok")}, ErrInvalidAmount},
		{"zero amount", Input{Amount: json.Number("0"), Kind: "c", Description: strptr("ok")}, ErrInvalidAmount},
		{"negative amount", Input{Amount: json.Number("-10"), Kind: "c", Description: strptr("ok")}, ErrInvalidAmount},
		{"missing kind", Input{Amount: json.Number("10"), Description: strptr("ok")}, ErrInvalidKind},
		{"unknown kind", Input{Amount: json.Number("10"), Kind: "x", Description: strptr("ok")}, ErrInvalidKind},
		{"spelled-out kind", Input{Amount: json.Number("10"), Kind: "credit", Description: strptr("ok")}, ErrInvalidKind},
		{"missing description", Input{Amount: json.Number("10"), Kind: "c"}, ErrInvalidDescription},
		{"empty description", Input{Amount: json.Number("10"), Kind: "c", Description: strptr("")}, ErrInvalidDescription},
		{"long description", Input{Amount: json.Number("10"), Kind: "c", Description: strptr("toolongstr12")}, ErrInvalidDescription},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Validate(tc.in); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateDescriptionBoundary(t *testing.T) {
	// Exactly ten characters is the last accepted length.
	if _, err := Validate(Input{Amount: json.Number("1"), Kind: "c", Description: strptr("abcdefghij")}); err != nil {
		t.Fatalf("ten characters should pass: %v", err)
	}
	if _, err := Validate(Input{Amount: json.Number("1"), Kind: "c", Description: strptr("abcdefghijk")}); err != ErrInvalidDescription {
		t.Fatalf("eleven characters should fail, got %v", err)
	}
}
