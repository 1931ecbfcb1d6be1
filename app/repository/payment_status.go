package repository

import (
	"context"
	"encoding/json"

	"github.com/edusoft-mn/ms-go-course-payments/app/docstore"
	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

type PaymentStatusRepository struct {
	store docstore.Store
}

func NewPaymentStatusRepository(store docstore.Store) *PaymentStatusRepository {
	return &PaymentStatusRepository{store: store}
}

func (r *PaymentStatusRepository) path(orderID string) string {
	return docstore.Join(paymentStatusRoot, orderID)
}

// Find returns nil when no status document exists for the order.
func (r *PaymentStatusRepository) Find(ctx context.Context, orderID string) (*entity.PaymentStatus, error) {
	var status entity.PaymentStatus
	found, err := r.store.Get(ctx, r.path(orderID), &status)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &status, nil
}

// Merge writes a partial update, always stamping updatedAt. Transition
// legality is the service's responsibility, not the store's.
func (r *PaymentStatusRepository) Merge(ctx context.Context, orderID string, fields map[string]interface{}) error {
	merged := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		merged[k] = v
	}
	merged["orderId"] = orderID
	merged["updatedAt"] = entity.NowMillis()
	return r.store.Update(ctx, r.path(orderID), merged)
}

// Watch forwards every committed write of the order's status document
// to fn until the returned unsubscribe func is called. Writes that do
// not decode are dropped.
func (r *PaymentStatusRepository) Watch(orderID string, fn func(status *entity.PaymentStatus)) (func(), error) {
	return r.store.Subscribe(r.path(orderID), func(raw json.RawMessage) {
		var status entity.PaymentStatus
		if err := json.Unmarshal(raw, &status); err != nil {
			return
		}
		fn(&status)
	})
}
