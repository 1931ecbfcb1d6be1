package mapper

import (
	"time"

	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
	"github.com/edusoft-mn/ms-go-course-payments/app/types"
)

func PaymentStatusToResponse(item *entity.PaymentStatus) *types.PaymentStatusResponse {
	if item == nil {
		return nil
	}

	return &types.PaymentStatusResponse{
		OrderID:           item.OrderID,
		Status:            string(item.Status),
		Message:           item.Message,
		TransactionID:     item.TransactionID,
		Error:             item.Error,
		VerificationCount: item.VerificationCount,
		PaidAt:            formatMillis(item.PaidAt),
		VerifiedAt:        formatMillis(item.VerifiedAt),
		VerifiedBy:        item.VerifiedBy,
		UpdatedAt:         formatMillis(item.UpdatedAt),
	}
}

func VerificationToResponse(item *entity.PaymentVerification) *types.VerificationResponse {
	if item == nil {
		return nil
	}

	return &types.VerificationResponse{
		ID:        item.ID,
		OrderID:   item.OrderID,
		UserID:    item.UserID,
		UserName:  item.UserName,
		IsAdmin:   item.IsAdmin,
		Method:    string(item.Method),
		Amount:    item.Amount,
		Notes:     item.Notes,
		Status:    string(item.Status),
		CreatedAt: formatMillis(item.CreatedAt),
	}
}

func VerificationsToResponse(items []*entity.PaymentVerification) []*types.VerificationResponse {
	result := make([]*types.VerificationResponse, 0, len(items))
	for _, item := range items {
		result = append(result, VerificationToResponse(item))
	}
	return result
}

func formatMillis(millis int64) string {
	if millis == 0 {
		return ""
	}
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}
