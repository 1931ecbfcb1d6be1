package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/edusoft-mn/ms-go-course-payments/app/docstore"
	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
	"github.com/edusoft-mn/ms-go-course-payments/app/gateway"
	"github.com/edusoft-mn/ms-go-course-payments/app/repository"
	"github.com/edusoft-mn/ms-go-course-payments/app/service"
	"github.com/edusoft-mn/ms-go-course-payments/app/types"
	"github.com/edusoft-mn/ms-go-course-payments/config"
)

func newTestController(policy gateway.OutcomePolicy) (*PaymentController, *docstore.MemoryStore) {
	store := docstore.NewMemoryStore()
	svc := service.NewPaymentService(
		repository.NewPaymentStatusRepository(store),
		repository.NewVerificationRepository(store),
		repository.NewOrderRepository(store),
		repository.NewUserRepository(store),
		repository.NewRewardRepository(store),
		gateway.NewSimulator(policy, 0),
		config.ReferralConfig{RewardPercent: 10, RewardPoints: 50, FirstReferralBadge: "first_referral"},
	)
	return NewPaymentController(svc, gateway.NewMethodRegistry()), store
}

func newJSONContext(e *echo.Echo, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	ctrl, _ := newTestController(gateway.AlwaysApprove())
	e := echo.New()
	ctx, rec := newJSONContext(e, http.MethodGet, "/health", nil)

	if err := ctrl.Health(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListPaymentMethods(t *testing.T) {
	ctrl, _ := newTestController(gateway.AlwaysApprove())
	e := echo.New()
	ctx, rec := newJSONContext(e, http.MethodGet, "/payments/methods", nil)

	if err := ctrl.ListPaymentMethods(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp types.PaymentMethodsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Methods) != 6 {
		t.Fatalf("expected 6 methods, got %d", len(resp.Methods))
	}
}

func TestCheckPaymentStatusReturnsDefault(t *testing.T) {
	ctrl, _ := newTestController(gateway.AlwaysApprove())
	e := echo.New()
	ctx, rec := newJSONContext(e, http.MethodGet, "/payments/ord-1/status", nil)
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("ord-1")

	if err := ctrl.CheckPaymentStatus(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp types.PaymentStatusEnvelopeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.PaymentStatus.Status != string(entity.PaymentStatusPending) {
		t.Fatalf("expected pending, got %s", resp.PaymentStatus.Status)
	}
	if resp.PaymentStatus.VerificationCount != 0 {
		t.Fatalf("expected zero count, got %d", resp.PaymentStatus.VerificationCount)
	}
}

func TestSimulatePayment(t *testing.T) {
	ctrl, _ := newTestController(gateway.AlwaysApprove())
	e := echo.New()
	ctx, rec := newJSONContext(e, http.MethodPost, "/payments/ord-1/simulate", map[string]string{"method": "khanbank"})
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("ord-1")

	if err := ctrl.SimulatePayment(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp types.PaymentStatusEnvelopeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.PaymentStatus.Status != string(entity.PaymentStatusSuccess) {
		t.Fatalf("expected success, got %s", resp.PaymentStatus.Status)
	}
	if resp.PaymentStatus.TransactionID == "" {
		t.Fatal("expected a transaction id")
	}
}

func TestSimulatePaymentRejectsBadMethod(t *testing.T) {
	ctrl, _ := newTestController(gateway.AlwaysApprove())
	e := echo.New()
	ctx, rec := newJSONContext(e, http.MethodPost, "/payments/ord-1/simulate", map[string]string{"method": "cash"})
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("ord-1")

	if err := ctrl.SimulatePayment(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddVerification(t *testing.T) {
	ctrl, _ := newTestController(gateway.AlwaysApprove())
	e := echo.New()
	ctx, rec := newJSONContext(e, http.MethodPost, "/payments/ord-1/verifications", map[string]interface{}{
		"userId": "u-1",
		"method": "golomt",
		"amount": 25000,
		"notes":  "шилжүүлсэн",
	})
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("ord-1")

	if err := ctrl.AddVerification(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	listCtx, listRec := newJSONContext(e, http.MethodGet, "/payments/ord-1/verifications", nil)
	listCtx.SetParamNames("orderId")
	listCtx.SetParamValues("ord-1")
	if err := ctrl.ListVerifications(listCtx); err != nil {
		t.Fatalf("list handler failed: %v", err)
	}

	var resp types.ListVerificationsResponse
	if err := json.Unmarshal(listRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Verifications) != 1 {
		t.Fatalf("expected 1 verification, got %d", len(resp.Verifications))
	}
	if resp.Verifications[0].UserID != "u-1" || resp.Verifications[0].Method != "golomt" {
		t.Fatalf("unexpected verification: %+v", resp.Verifications[0])
	}
}

func TestAddVerificationRequiresUser(t *testing.T) {
	ctrl, _ := newTestController(gateway.AlwaysApprove())
	e := echo.New()
	ctx, rec := newJSONContext(e, http.MethodPost, "/payments/ord-1/verifications", map[string]interface{}{
		"method": "golomt",
	})
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("ord-1")

	if err := ctrl.AddVerification(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

type captureHook struct {
	entries []*logrus.Entry
}

func (h *captureHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *captureHook) Fire(entry *logrus.Entry) error {
	h.entries = append(h.entries, entry)
	return nil
}

func TestErrorLogsCarryRequestID(t *testing.T) {
	hook := &captureHook{}
	logrus.StandardLogger().AddHook(hook)
	t.Cleanup(func() { logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks)) })

	ctrl, store := newTestController(gateway.AlwaysApprove())
	e := echo.New()

	// A status document that does not decode forces the 500 path.
	seedCtx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	_ = store.Set(seedCtx, "paymentStatus/ord-1", map[string]interface{}{"status": 123})

	ctx, rec := newJSONContext(e, http.MethodGet, "/payments/ord-1/status", nil)
	ctx.Request().Header.Set(echo.HeaderXRequestID, "req-42")
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("ord-1")

	if err := ctrl.CheckPaymentStatus(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var logged *logrus.Entry
	for _, entry := range hook.entries {
		if entry.Level == logrus.ErrorLevel {
			logged = entry
			break
		}
	}
	if logged == nil {
		t.Fatal("expected an error log entry")
	}
	if logged.Data["request_id"] != "req-42" {
		t.Fatalf("error log missing request id: %v", logged.Data)
	}
}

func TestCompletePayment(t *testing.T) {
	ctrl, store := newTestController(gateway.AlwaysApprove())
	e := echo.New()

	seedCtx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	_ = store.Set(seedCtx, "orders/ord-1", &entity.Order{
		ID:          "ord-1",
		UserID:      "u-1",
		Items:       []entity.OrderItem{{ID: "course-1", Title: "Курс", Price: 10000}},
		TotalAmount: 10000,
		Status:      entity.OrderStatusPending,
	})
	_ = store.Set(seedCtx, "users/u-1", &entity.User{ID: "u-1"})

	ctx, rec := newJSONContext(e, http.MethodPost, "/admin/orders/ord-1/complete", map[string]string{
		"adminId":   "admin-1",
		"adminName": "Админ",
	})
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("ord-1")

	if err := ctrl.CompletePayment(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp types.PaymentStatusEnvelopeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.PaymentStatus.Status != string(entity.PaymentStatusVerified) {
		t.Fatalf("expected verified, got %s", resp.PaymentStatus.Status)
	}
}

func TestCompletePaymentNotFound(t *testing.T) {
	ctrl, _ := newTestController(gateway.AlwaysApprove())
	e := echo.New()
	ctx, rec := newJSONContext(e, http.MethodPost, "/admin/orders/missing/complete", map[string]string{
		"adminId": "admin-1",
	})
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("missing")

	if err := ctrl.CompletePayment(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCancelOrder(t *testing.T) {
	ctrl, store := newTestController(gateway.AlwaysApprove())
	e := echo.New()

	seedCtx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	_ = store.Set(seedCtx, "orders/ord-1", &entity.Order{ID: "ord-1", UserID: "u-1", Status: entity.OrderStatusPending})

	ctx, rec := newJSONContext(e, http.MethodPost, "/admin/orders/ord-1/cancel", map[string]string{
		"adminId": "admin-1",
	})
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("ord-1")

	if err := ctrl.CancelOrder(ctx); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp types.PaymentStatusEnvelopeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.PaymentStatus.Status != string(entity.PaymentStatusCancelled) {
		t.Fatalf("expected cancelled, got %s", resp.PaymentStatus.Status)
	}
}
