package repository

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/edusoft-mn/ms-go-course-payments/app/docstore"
	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

type VerificationRepository struct {
	store docstore.Store
}

func NewVerificationRepository(store docstore.Store) *VerificationRepository {
	return &VerificationRepository{store: store}
}

// Append writes a new immutable log entry, assigning a fresh push id
// and createdAt. Existing entries are never touched.
func (r *VerificationRepository) Append(ctx context.Context, entry *entity.PaymentVerification) error {
	collection := docstore.Join(verificationsRoot, entry.OrderID)
	id, err := r.store.Push(ctx, collection)
	if err != nil {
		return err
	}
	entry.ID = id
	entry.CreatedAt = entity.NowMillis()
	return r.store.Set(ctx, docstore.Join(collection, id), entry)
}

// ListByOrder returns the order's log entries in insertion order
// (push keys are time-ordered).
func (r *VerificationRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.PaymentVerification, error) {
	children, err := r.store.Children(ctx, docstore.Join(verificationsRoot, orderID))
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(children))
	for key := range children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]*entity.PaymentVerification, 0, len(keys))
	for _, key := range keys {
		var entry entity.PaymentVerification
		if err := json.Unmarshal(children[key], &entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
