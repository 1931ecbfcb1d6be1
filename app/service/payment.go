package service

import (
	"context"
	"strings"

	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
	"github.com/edusoft-mn/ms-go-course-payments/app/gateway"
	"github.com/edusoft-mn/ms-go-course-payments/config"
)

type paymentStatusRepository interface {
	Find(ctx context.Context, orderID string) (*entity.PaymentStatus, error)
	Merge(ctx context.Context, orderID string, fields map[string]interface{}) error
	Watch(orderID string, fn func(status *entity.PaymentStatus)) (func(), error)
}

type verificationRepository interface {
	Append(ctx context.Context, entry *entity.PaymentVerification) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.PaymentVerification, error)
}

type orderRepository interface {
	FindByID(ctx context.Context, orderID string) (*entity.Order, error)
	SetStatus(ctx context.Context, orderID string, status entity.OrderStatus) error
}

type userRepository interface {
	FindByID(ctx context.Context, userID string) (*entity.User, error)
	FindByReferralCode(ctx context.Context, code string) (*entity.User, error)
	GrantCourses(ctx context.Context, user *entity.User, courseIDs []string) error
	AddPoints(ctx context.Context, user *entity.User, points int64) error
	AddBadge(ctx context.Context, user *entity.User, badge string) error
}

type rewardRepository interface {
	Create(ctx context.Context, reward *entity.ReferralReward) error
	ExistsForOrder(ctx context.Context, orderID, referrerID string) (bool, error)
	CountByReferrer(ctx context.Context, referrerID string) (int, error)
}

type PaymentService struct {
	statusRepo       paymentStatusRepository
	verificationRepo verificationRepository
	orderRepo        orderRepository
	userRepo         userRepository
	rewardRepo       rewardRepository
	gw               gateway.Gateway
	referralCfg      config.ReferralConfig
}

func NewPaymentService(
	statusRepo paymentStatusRepository,
	verificationRepo verificationRepository,
	orderRepo orderRepository,
	userRepo userRepository,
	rewardRepo rewardRepository,
	gw gateway.Gateway,
	referralCfg config.ReferralConfig,
) *PaymentService {
	return &PaymentService{
		statusRepo:       statusRepo,
		verificationRepo: verificationRepo,
		orderRepo:        orderRepo,
		userRepo:         userRepo,
		rewardRepo:       rewardRepo,
		gw:               gw,
		referralCfg:      referralCfg,
	}
}

// CheckPaymentStatus reads the order's status document. An order
// without one gets a default pending record with a zero verification
// count; nothing is persisted until the first real write.
func (s *PaymentService) CheckPaymentStatus(ctx context.Context, orderID string) (*entity.PaymentStatus, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrInvalidRequest
	}
	status, err := s.statusRepo.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return entity.DefaultPaymentStatus(orderID), nil
	}
	return status, nil
}

// UpdatePaymentStatus merges caller fields into the status document.
// Every status update bumps verificationCount by one over its last
// read value and overwrites updatedAt. Transition legality is not
// checked here; the higher-level operations own the state machine.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, orderID string, fields map[string]interface{}) error {
	if strings.TrimSpace(orderID) == "" {
		return ErrInvalidRequest
	}
	return s.mergeStatus(ctx, orderID, fields)
}

// WatchPaymentStatus subscribes fn to the order's status document
// until the returned unsubscribe func is called.
func (s *PaymentService) WatchPaymentStatus(orderID string, fn func(status *entity.PaymentStatus)) (func(), error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrInvalidRequest
	}
	return s.statusRepo.Watch(orderID, fn)
}

// SimulatePaymentVerification runs the simulated gateway for the
// order: moves the status to processing, charges, and resolves to
// success or failed. A terminal status (verified, cancelled) is never
// touched, including by a charge that was already in flight when the
// order was cancelled.
func (s *PaymentService) SimulatePaymentVerification(ctx context.Context, orderID string, method entity.PaymentMethod) (*entity.PaymentStatus, error) {
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	current, err := s.CheckPaymentStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return current, nil
	}

	if current.Status != entity.PaymentStatusProcessing {
		event := entity.EventInitiate
		if current.Status == entity.PaymentStatusFailed {
			event = entity.EventRetry
		}
		next, ok := entity.NextStatus(current.Status, event)
		if !ok {
			return current, nil
		}
		err = s.mergeStatus(ctx, orderID, map[string]interface{}{
			"status":  next,
			"message": "Төлбөрийг шалгаж байна",
			"error":   "",
		})
		if err != nil {
			return nil, err
		}
	}

	result, err := s.gw.Charge(ctx, orderID, method)
	if err != nil {
		return nil, err
	}

	// Re-read before the final write: an admin may have cancelled the
	// order while the charge was in flight.
	latest, err := s.CheckPaymentStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if latest.Status.Terminal() {
		return latest, nil
	}

	if result.Approved {
		next, _ := entity.NextStatus(entity.PaymentStatusProcessing, entity.EventGatewayApprove)
		err = s.mergeStatus(ctx, orderID, map[string]interface{}{
			"status":        next,
			"message":       "Төлбөр амжилттай төлөгдлөө",
			"transactionId": result.TransactionID,
			"paidAt":        result.PaidAt,
			"error":         "",
		})
	} else {
		next, _ := entity.NextStatus(entity.PaymentStatusProcessing, entity.EventGatewayReject)
		err = s.mergeStatus(ctx, orderID, map[string]interface{}{
			"status":  next,
			"message": "Төлбөр амжилтгүй боллоо",
			"error":   result.DeclineReason,
		})
	}
	if err != nil {
		return nil, err
	}

	return s.CheckPaymentStatus(ctx, orderID)
}

// AddPaymentVerification appends an immutable log entry for a user or
// admin attempt, then re-reads the status. While the payment is still
// pending or processing the status message is set to "under review";
// no transition is forced.
func (s *PaymentService) AddPaymentVerification(ctx context.Context, entry *entity.PaymentVerification) (*entity.PaymentStatus, error) {
	if entry == nil || strings.TrimSpace(entry.OrderID) == "" || strings.TrimSpace(entry.UserID) == "" {
		return nil, ErrInvalidRequest
	}
	if !entry.Method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if entry.Status == "" {
		entry.Status = entity.VerificationStatusPending
	}

	if err := s.verificationRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	current, err := s.CheckPaymentStatus(ctx, entry.OrderID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if current.Status == entity.PaymentStatusPending || current.Status == entity.PaymentStatusProcessing {
		fields["message"] = "Төлбөрийн мэдээлэл хянагдаж байна"
	}
	if err := s.mergeStatus(ctx, entry.OrderID, fields); err != nil {
		return nil, err
	}

	return s.CheckPaymentStatus(ctx, entry.OrderID)
}

// GetPaymentVerifications lists the order's log entries in insertion
// order.
func (s *PaymentService) GetPaymentVerifications(ctx context.Context, orderID string) ([]*entity.PaymentVerification, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrInvalidRequest
	}
	return s.verificationRepo.ListByOrder(ctx, orderID)
}

// mergeStatus is the single write path for the status document: it
// bumps verificationCount by one over the last read value. Read then
// increment matches the upstream behavior; both store implementations
// serialize the merge, so the counter is strict when calls are
// serialized.
func (s *PaymentService) mergeStatus(ctx context.Context, orderID string, fields map[string]interface{}) error {
	current, err := s.statusRepo.Find(ctx, orderID)
	if err != nil {
		return err
	}
	var count int64
	if current != nil {
		count = current.VerificationCount
	}

	merged := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		merged[k] = v
	}
	merged["verificationCount"] = count + 1
	if current == nil {
		if _, ok := merged["status"]; !ok {
			merged["status"] = entity.PaymentStatusPending
		}
	}
	return s.statusRepo.Merge(ctx, orderID, merged)
}
