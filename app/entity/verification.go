package entity

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
)

// PaymentVerification is one entry in the append-only audit trail.
// Entries are never mutated after being written.
type PaymentVerification struct {
	ID        string             `json:"id"`
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	UserName  string             `json:"userName,omitempty"`
	IsAdmin   bool               `json:"isAdmin"`
	Method    PaymentMethod      `json:"method"`
	Amount    int64              `json:"amount"`
	Notes     string             `json:"notes,omitempty"`
	Status    VerificationStatus `json:"status"`
	CreatedAt int64              `json:"createdAt"`
}
