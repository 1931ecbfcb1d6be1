package repository

import (
	"context"

	"github.com/edusoft-mn/ms-go-course-payments/app/docstore"
	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

type OrderRepository struct {
	store docstore.Store
}

func NewOrderRepository(store docstore.Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// FindByID returns nil when the order does not exist.
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*entity.Order, error) {
	var order entity.Order
	found, err := r.store.Get(ctx, docstore.Join(ordersRoot, orderID), &order)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &order, nil
}

func (r *OrderRepository) SetStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	return r.store.Update(ctx, docstore.Join(ordersRoot, orderID), map[string]interface{}{
		"status": status,
	})
}
