package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is how a simulated payment was made.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bankTransfer"
	PaymentMobileMoney  PaymentMethod = "mobileMoney"
	PaymentCrypto       PaymentMethod = "crypto"
)

// paymentMethodLabels is a total mapping from method to display label.
var paymentMethodLabels = map[PaymentMethod]string{
	PaymentCash:         "Cash",
	PaymentBankTransfer: "Bank Transfer",
	PaymentMobileMoney:  "Mobile Money",
	PaymentCrypto:       "Cryptocurrency",
}

// Label returns the display label for the method.
func (m PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[m]; ok {
		return label
	}
	return string(m)
}

// Valid reports whether the method is recognized.
func (m PaymentMethod) Valid() bool {
	_, ok := paymentMethodLabels[m]
	return ok
}

// PaymentStatus is the settlement state of a ledger entry.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Valid reports whether the status is recognized.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// PaymentRecord is one append-only ledger entry. RunningBalance is the
// cumulative total at the time the entry was appended and is never edited
// retroactively. No real money moves; this is a simulation ledger.
type PaymentRecord struct {
	ID             uuid.UUID     `json:"id"`
	JobID          uuid.UUID     `json:"job_id"`
	WorkerID       uuid.UUID     `json:"worker_id"`
	Amount         float64       `json:"amount"`
	PaymentDate    time.Time     `json:"payment_date"`
	Method         PaymentMethod `json:"payment_method"`
	Status         PaymentStatus `json:"payment_status"`
	RunningBalance float64       `json:"running_balance"`
}

// Validate checks ledger entry fields.
func (p *PaymentRecord) Validate() error {
	if p.Amount <= 0 {
		return fmt.Errorf("payment amount must be positive, got %v", p.Amount)
	}
	if !p.Method.Valid() {
		return fmt.Errorf("unknown payment method: %q", p.Method)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("unknown payment status: %q", p.Status)
	}
	return nil
}
