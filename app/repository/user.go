package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/edusoft-mn/ms-go-course-payments/app/docstore"
	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

type UserRepository struct {
	store docstore.Store
}

func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) path(userID string) string {
	return docstore.Join(usersRoot, userID)
}

// FindByID returns nil when the user does not exist.
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*entity.User, error) {
	var user entity.User
	found, err := r.store.Get(ctx, r.path(userID), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if user.ID == "" {
		user.ID = userID
	}
	return &user, nil
}

// FindByReferralCode scans the users collection for a matching
// referralCode field. The store has no secondary indexes; referral
// completion is rare enough that a scan is acceptable.
func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	children, err := r.store.Children(ctx, usersRoot)
	if err != nil {
		return nil, err
	}
	for key, raw := range children {
		var user entity.User
		if err := json.Unmarshal(raw, &user); err != nil {
			continue
		}
		if user.ReferralCode == code {
			if user.ID == "" {
				user.ID = key
			}
			return &user, nil
		}
	}
	return nil, nil
}

// GrantCourses unions courseIDs into the user's purchased set; a
// course already present is not added twice.
func (r *UserRepository) GrantCourses(ctx context.Context, user *entity.User, courseIDs []string) error {
	merged := append([]string{}, user.PurchasedCourses...)
	seen := make(map[string]bool, len(merged))
	for _, id := range merged {
		seen[id] = true
	}
	for _, id := range courseIDs {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	user.PurchasedCourses = merged
	return r.store.Update(ctx, r.path(user.ID), map[string]interface{}{
		"purchasedCourses": merged,
	})
}

func (r *UserRepository) AddPoints(ctx context.Context, user *entity.User, points int64) error {
	user.Points += points
	return r.store.Update(ctx, r.path(user.ID), map[string]interface{}{
		"points": user.Points,
	})
}

// AddBadge is idempotent: a badge the user already holds is left alone.
func (r *UserRepository) AddBadge(ctx context.Context, user *entity.User, badge string) error {
	if user.HasBadge(badge) {
		return nil
	}
	user.Badges = append(user.Badges, badge)
	return r.store.Update(ctx, r.path(user.ID), map[string]interface{}{
		"badges": user.Badges,
	})
}
