package transaction

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/saldo-pay/saldo_pay/internal/ledger"
)

// DescriptionMaxLen is the wire contract for movement descriptions.
const DescriptionMaxLen = 10

var (
	// ErrInvalidAmount occurs when the amount is missing, non-integral, zero
	// or negative. Direction is carried by the kind, never by sign.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidKind occurs when the kind does not decode to credit or debit.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidDescription occurs when the description is missing, empty or
	// longer than DescriptionMaxLen characters.
	ErrInvalidDescription = errors.New("invalid description")
)

// Input is a raw movement request as received from the transport layer.
// Amount stays a json.Number so a fractional value is detectable instead of
// being silently truncated.
type Input struct {
	Amount      json.Number
	Kind        string
	Description *string
}

// Validate normalizes a raw movement request or reports the first shape
// violation. Pure; it never touches the store.
func Validate(in Input) (ledger.Movement, error) {
	if in.Amount == "" {
		return ledger.Movement{}, ErrInvalidAmount
	}
	amount, err := in.Amount.Int64()
	if err != nil || amount <= 0 {
		return ledger.Movement{}, ErrInvalidAmount
	}

	kind, err := ledger.ParseKind(in.Kind)
	if err != nil {
		return ledger.Movement{}, ErrInvalidKind
	}

	if in.Description == nil {
		return ledger.Movement{}, ErrInvalidDescription
	}
	desc := *in.Description
	if desc == "" || utf8.RuneCountInString(desc) > DescriptionMaxLen {
		return ledger.Movement{}, ErrInvalidDescription
	}

	return ledger.Movement{Amount: amount, Kind: kind, Description: desc}, nil
}
