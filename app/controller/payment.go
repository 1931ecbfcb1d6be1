package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
	"github.com/edusoft-mn/ms-go-course-payments/app/factory"
	"github.com/edusoft-mn/ms-go-course-payments/app/gateway"
	"github.com/edusoft-mn/ms-go-course-payments/app/mapper"
	"github.com/edusoft-mn/ms-go-course-payments/app/service"
	"github.com/edusoft-mn/ms-go-course-payments/app/types"
)

type PaymentController struct {
	paymentService *service.PaymentService
	methodRegistry *gateway.MethodRegistry
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService, methodRegistry *gateway.MethodRegistry) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		methodRegistry: methodRegistry,
		logger:         factory.NewModuleLogger("payments-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *PaymentController) ListPaymentMethods(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.PaymentMethodsResponse{Methods: c.methodRegistry.List()})
}

func (c *PaymentController) CheckPaymentStatus(ctx echo.Context) error {
	req, err := types.NewCheckStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.CheckPaymentStatus(ctx.Request().Context(), req.OrderID)
	if err != nil {
		c.log(ctx).WithError(err).Error("Check payment status failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.PaymentStatusEnvelopeResponse{PaymentStatus: mapper.PaymentStatusToResponse(item)})
}

// StreamPaymentStatus serves the order's live status feed as
// server-sent events: the current record first, then every update
// until the client disconnects.
func (c *PaymentController) StreamPaymentStatus(ctx echo.Context) error {
	req, err := types.NewCheckStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	updates := make(chan *entity.PaymentStatus, 16)
	unsubscribe, err := c.paymentService.WatchPaymentStatus(req.OrderID, func(status *entity.PaymentStatus) {
		select {
		case updates <- status:
		default:
		}
	})
	if err != nil {
		c.log(ctx).WithError(err).Error("Watch payment status failed")
		return err
	}
	defer unsubscribe()

	current, err := c.paymentService.CheckPaymentStatus(ctx.Request().Context(), req.OrderID)
	if err != nil {
		return err
	}
	if err := writeSSEEvent(res, current); err != nil {
		return err
	}

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case status := <-updates:
			if err := writeSSEEvent(res, status); err != nil {
				return err
			}
		}
	}
}

func (c *PaymentController) SimulatePayment(ctx echo.Context) error {
	req, err := types.NewSimulatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.SimulatePaymentVerification(ctx.Request().Context(), req.OrderID, req.PaymentMethod())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrInvalidPaymentMethod):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			c.log(ctx).WithError(err).Error("Simulate payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.PaymentStatusEnvelopeResponse{PaymentStatus: mapper.PaymentStatusToResponse(item)})
}

func (c *PaymentController) AddVerification(ctx echo.Context) error {
	req, err := types.NewAddVerificationRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.AddPaymentVerification(ctx.Request().Context(), req.ToEntity())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrInvalidPaymentMethod):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			c.log(ctx).WithError(err).Error("Add verification failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &types.PaymentStatusEnvelopeResponse{PaymentStatus: mapper.PaymentStatusToResponse(item)})
}

func (c *PaymentController) ListVerifications(ctx echo.Context) error {
	req, err := types.NewCheckStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.paymentService.GetPaymentVerifications(ctx.Request().Context(), req.OrderID)
	if err != nil {
		c.log(ctx).WithError(err).Error("List verifications failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListVerificationsResponse{Verifications: mapper.VerificationsToResponse(items)})
}

func (c *PaymentController) CompletePayment(ctx echo.Context) error {
	req, err := types.NewCompletePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.CompletePayment(ctx.Request().Context(), req.OrderID, req.AdminID, req.AdminName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrUserNotFound):
			return c.writeError(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrOrderAlreadyCompleted), errors.Is(err, service.ErrOrderCancelled), errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			c.log(ctx).WithError(err).Error("Complete payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.PaymentStatusEnvelopeResponse{PaymentStatus: mapper.PaymentStatusToResponse(item)})
}

func (c *PaymentController) CancelOrder(ctx echo.Context) error {
	req, err := types.NewCancelOrderRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.paymentService.CancelOrder(ctx.Request().Context(), req.OrderID, req.AdminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.writeError(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			c.log(ctx).WithError(err).Error("Cancel order failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.PaymentStatusEnvelopeResponse{PaymentStatus: mapper.PaymentStatusToResponse(item)})
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}

// log returns the controller logger enriched with the request id.
func (c *PaymentController) log(ctx echo.Context) logrus.FieldLogger {
	return factory.LoggerWithContext(c.logger, ctx)
}

func writeSSEEvent(res *echo.Response, status *entity.PaymentStatus) error {
	payload, err := json.Marshal(mapper.PaymentStatusToResponse(status))
	if err != nil {
		return err
	}
	if _, err := res.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}
	res.Flush()
	return nil
}
