package repository

import (
	"context"
	"encoding/json"

	"github.com/edusoft-mn/ms-go-course-payments/app/docstore"
	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

type RewardRepository struct {
	store docstore.Store
}

func NewRewardRepository(store docstore.Store) *RewardRepository {
	return &RewardRepository{store: store}
}

func (r *RewardRepository) Create(ctx context.Context, reward *entity.ReferralReward) error {
	id, err := r.store.Push(ctx, rewardsRoot)
	if err != nil {
		return err
	}
	reward.ID = id
	reward.CreatedAt = entity.NowMillis()
	return r.store.Set(ctx, docstore.Join(rewardsRoot, id), reward)
}

// ExistsForOrder reports whether a reward was already issued for the
// order/referrer pair, so a retried completion cannot double-issue.
func (r *RewardRepository) ExistsForOrder(ctx context.Context, orderID, referrerID string) (bool, error) {
	children, err := r.store.Children(ctx, rewardsRoot)
	if err != nil {
		return false, err
	}
	for _, raw := range children {
		var reward entity.ReferralReward
		if err := json.Unmarshal(raw, &reward); err != nil {
			continue
		}
		if reward.OrderID == orderID && reward.ReferrerID == referrerID {
			return true, nil
		}
	}
	return false, nil
}

// CountByReferrer counts rewards already issued to a referrer; zero
// means the next reward is their first.
func (r *RewardRepository) CountByReferrer(ctx context.Context, referrerID string) (int, error) {
	children, err := r.store.Children(ctx, rewardsRoot)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, raw := range children {
		var reward entity.ReferralReward
		if err := json.Unmarshal(raw, &reward); err != nil {
			continue
		}
		if reward.ReferrerID == referrerID {
			count++
		}
	}
	return count, nil
}
