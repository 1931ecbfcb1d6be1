package entity

type PaymentStatusValue string

const (
	PaymentStatusPending    PaymentStatusValue = "pending"
	PaymentStatusProcessing PaymentStatusValue = "processing"
	PaymentStatusSuccess    PaymentStatusValue = "success"
	PaymentStatusVerified   PaymentStatusValue = "verified"
	PaymentStatusFailed     PaymentStatusValue = "failed"
	PaymentStatusCancelled  PaymentStatusValue = "cancelled"
)

// PaymentStatus is the single status document kept per order, finer
// grained than Order.Status.
type PaymentStatus struct {
	OrderID           string             `json:"orderId"`
	Status            PaymentStatusValue `json:"status"`
	Message           string             `json:"message,omitempty"`
	TransactionID     string             `json:"transactionId,omitempty"`
	Error             string             `json:"error,omitempty"`
	VerificationCount int64              `json:"verificationCount"`
	PaidAt            int64              `json:"paidAt,omitempty"`
	VerifiedAt        int64              `json:"verifiedAt,omitempty"`
	VerifiedBy        string             `json:"verifiedBy,omitempty"`
	UpdatedAt         int64              `json:"updatedAt"`
}

// DefaultPaymentStatus is what a check returns for an order that has no
// status document yet. It is not persisted until the first real write.
func DefaultPaymentStatus(orderID string) *PaymentStatus {
	return &PaymentStatus{
		OrderID:           orderID,
		Status:            PaymentStatusPending,
		Message:           "Төлбөр хүлээгдэж байна",
		VerificationCount: 0,
	}
}

func (s PaymentStatusValue) Terminal() bool {
	return s == PaymentStatusVerified || s == PaymentStatusCancelled
}

func (s PaymentStatusValue) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusSuccess,
		PaymentStatusVerified, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	default:
		return false
	}
}
