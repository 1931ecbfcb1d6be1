package service

import (
	"context"
	"strings"

	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

// CompletePayment is the admin/back-office approval: the order is
// marked completed, its courses are granted to the buyer, referral
// side effects run, and the status document is marked verified. The
// steps are independent writes with no rollback; a failure partway
// leaves the earlier writes in place.
func (s *PaymentService) CompletePayment(ctx context.Context, orderID, adminID, adminName string) (*entity.PaymentStatus, error) {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(adminID) == "" {
		return nil, ErrInvalidRequest
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == entity.OrderStatusCompleted {
		return nil, ErrOrderAlreadyCompleted
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, ErrOrderCancelled
	}

	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.orderRepo.SetStatus(ctx, orderID, entity.OrderStatusCompleted); err != nil {
		return nil, err
	}

	if err := s.userRepo.GrantCourses(ctx, user, order.CourseIDs()); err != nil {
		return nil, err
	}

	if err := s.issueReferralReward(ctx, order, user); err != nil {
		return nil, err
	}

	err = s.mergeStatus(ctx, orderID, map[string]interface{}{
		"status":     entity.PaymentStatusVerified,
		"message":    "Төлбөр баталгаажлаа",
		"verifiedAt": entity.NowMillis(),
		"verifiedBy": adminName,
		"error":      "",
	})
	if err != nil {
		return nil, err
	}

	return s.CheckPaymentStatus(ctx, orderID)
}

// CancelOrder cancels from any state. Already-verified (and
// already-cancelled) orders are a strict no-op: nothing is written and
// the current status is returned unchanged.
func (s *PaymentService) CancelOrder(ctx context.Context, orderID, adminID string) (*entity.PaymentStatus, error) {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(adminID) == "" {
		return nil, ErrInvalidRequest
	}

	current, err := s.CheckPaymentStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return current, nil
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.orderRepo.SetStatus(ctx, orderID, entity.OrderStatusCancelled); err != nil {
		return nil, err
	}

	err = s.mergeStatus(ctx, orderID, map[string]interface{}{
		"status":  entity.PaymentStatusCancelled,
		"message": "Захиалга цуцлагдлаа",
	})
	if err != nil {
		return nil, err
	}

	return s.CheckPaymentStatus(ctx, orderID)
}

// issueReferralReward runs the referral side effects for a completed
// order: at most one reward per order/referrer pair, points to the
// referrer, and the one-time first-referral badge.
func (s *PaymentService) issueReferralReward(ctx context.Context, order *entity.Order, buyer *entity.User) error {
	code := strings.TrimSpace(order.ReferralCode)
	if code == "" {
		return nil
	}

	referrer, err := s.userRepo.FindByReferralCode(ctx, code)
	if err != nil {
		return err
	}
	if referrer == nil {
		return nil
	}

	exists, err := s.rewardRepo.ExistsForOrder(ctx, order.ID, referrer.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	previous, err := s.rewardRepo.CountByReferrer(ctx, referrer.ID)
	if err != nil {
		return err
	}

	courseID := ""
	if len(order.Items) > 0 {
		courseID = order.Items[0].ID
	}

	reward := &entity.ReferralReward{
		OrderID:    order.ID,
		ReferrerID: referrer.ID,
		RefereeID:  buyer.ID,
		CourseID:   courseID,
		Amount:     order.TotalAmount * int64(s.referralCfg.RewardPercent) / 100,
		Points:     s.referralCfg.RewardPoints,
	}
	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		return err
	}

	if err := s.userRepo.AddPoints(ctx, referrer, reward.Points); err != nil {
		return err
	}

	if previous == 0 {
		if err := s.userRepo.AddBadge(ctx, referrer, s.referralCfg.FirstReferralBadge); err != nil {
			return err
		}
	}
	return nil
}
