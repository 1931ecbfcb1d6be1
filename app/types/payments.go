package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

type CheckStatusRequest struct {
	OrderID string
}

func NewCheckStatusRequestFromContext(ctx echo.Context) (*CheckStatusRequest, error) {
	return &CheckStatusRequest{OrderID: strings.TrimSpace(ctx.Param("orderId"))}, nil
}

func (r *CheckStatusRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order id is required")
	}
	return nil
}

type SimulatePaymentRequest struct {
	OrderID string `json:"-"`
	Method  string `json:"method"`
}

func NewSimulatePaymentRequestFromContext(ctx echo.Context) (*SimulatePaymentRequest, error) {
	var body SimulatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderID = strings.TrimSpace(ctx.Param("orderId"))
	body.Method = strings.ToLower(strings.TrimSpace(body.Method))
	return &body, nil
}

func (r *SimulatePaymentRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order id is required")
	}
	if r.Method == "" {
		return errors.New("method is required")
	}
	if !entity.PaymentMethod(r.Method).Valid() {
		return errors.New("method is invalid")
	}
	return nil
}

func (r *SimulatePaymentRequest) PaymentMethod() entity.PaymentMethod {
	return entity.PaymentMethod(r.Method)
}

type AddVerificationRequest struct {
	OrderID  string `json:"-"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsAdmin  bool   `json:"isAdmin"`
	Method   string `json:"method"`
	Amount   int64  `json:"amount"`
	Notes    string `json:"notes"`
}

func NewAddVerificationRequestFromContext(ctx echo.Context) (*AddVerificationRequest, error) {
	var body AddVerificationRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderID = strings.TrimSpace(ctx.Param("orderId"))
	body.UserID = strings.TrimSpace(body.UserID)
	body.UserName = strings.TrimSpace(body.UserName)
	body.Method = strings.ToLower(strings.TrimSpace(body.Method))
	body.Notes = strings.TrimSpace(body.Notes)
	return &body, nil
}

func (r *AddVerificationRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order id is required")
	}
	if r.UserID == "" {
		return errors.New("user id is required")
	}
	if r.Method == "" {
		return errors.New("method is required")
	}
	if !entity.PaymentMethod(r.Method).Valid() {
		return errors.New("method is invalid")
	}
	if r.Amount < 0 {
		return errors.New("amount must be >= 0")
	}
	return nil
}

func (r *AddVerificationRequest) ToEntity() *entity.PaymentVerification {
	return &entity.PaymentVerification{
		OrderID:  r.OrderID,
		UserID:   r.UserID,
		UserName: r.UserName,
		IsAdmin:  r.IsAdmin,
		Method:   entity.PaymentMethod(r.Method),
		Amount:   r.Amount,
		Notes:    r.Notes,
		Status:   entity.VerificationStatusPending,
	}
}

type CompletePaymentRequest struct {
	OrderID   string `json:"-"`
	AdminID   string `json:"adminId"`
	AdminName string `json:"adminName"`
}

func NewCompletePaymentRequestFromContext(ctx echo.Context) (*CompletePaymentRequest, error) {
	var body CompletePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderID = strings.TrimSpace(ctx.Param("orderId"))
	body.AdminID = strings.TrimSpace(body.AdminID)
	body.AdminName = strings.TrimSpace(body.AdminName)
	return &body, nil
}

func (r *CompletePaymentRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order id is required")
	}
	if r.AdminID == "" {
		return errors.New("admin id is required")
	}
	return nil
}

type CancelOrderRequest struct {
	OrderID string `json:"-"`
	AdminID string `json:"adminId"`
}

func NewCancelOrderRequestFromContext(ctx echo.Context) (*CancelOrderRequest, error) {
	var body CancelOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderID = strings.TrimSpace(ctx.Param("orderId"))
	body.AdminID = strings.TrimSpace(body.AdminID)
	return &body, nil
}

func (r *CancelOrderRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order id is required")
	}
	if r.AdminID == "" {
		return errors.New("admin id is required")
	}
	return nil
}
