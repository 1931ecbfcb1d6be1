package entity

// User mirrors the fields of the shared profile document this service
// reads and writes; the rest of the profile is owned elsewhere.
type User struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	Email            string   `json:"email,omitempty"`
	PurchasedCourses []string `json:"purchasedCourses,omitempty"`
	Points           int64    `json:"points"`
	Badges           []string `json:"badges,omitempty"`
	ReferralCode     string   `json:"referralCode,omitempty"`
}

func (u *User) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

func (u *User) HasCourse(courseID string) bool {
	for _, id := range u.PurchasedCourses {
		if id == courseID {
			return true
		}
	}
	return false
}
