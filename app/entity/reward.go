package entity

// ReferralReward is written once per completed order that carries a
// resolvable referral code.
type ReferralReward struct {
	ID         string `json:"id"`
	OrderID    string `json:"orderId"`
	ReferrerID string `json:"referrerId"`
	RefereeID  string `json:"refereeId"`
	CourseID   string `json:"courseId"`
	Amount     int64  `json:"amount"`
	Points     int64  `json:"points"`
	CreatedAt  int64  `json:"createdAt"`
}
