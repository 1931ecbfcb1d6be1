package types

import "github.com/edusoft-mn/ms-go-course-payments/app/entity"

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PaymentStatusResponse struct {
	OrderID           string `json:"orderId"`
	Status            string `json:"status"`
	Message           string `json:"message,omitempty"`
	TransactionID     string `json:"transactionId,omitempty"`
	Error             string `json:"error,omitempty"`
	VerificationCount int64  `json:"verificationCount"`
	PaidAt            string `json:"paidAt,omitempty"`
	VerifiedAt        string `json:"verifiedAt,omitempty"`
	VerifiedBy        string `json:"verifiedBy,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

type PaymentStatusEnvelopeResponse struct {
	PaymentStatus *PaymentStatusResponse `json:"paymentStatus"`
}

type VerificationResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName,omitempty"`
	IsAdmin   bool   `json:"isAdmin"`
	Method    string `json:"method"`
	Amount    int64  `json:"amount"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type ListVerificationsResponse struct {
	Verifications []*VerificationResponse `json:"verifications"`
}

type PaymentMethodsResponse struct {
	Methods []entity.PaymentInstructions `json:"methods"`
}
