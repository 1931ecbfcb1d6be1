package repository

// Collection roots in the shared document store. The checkout flow,
// admin console, and this service all address the same paths.
const (
	ordersRoot        = "orders"
	paymentStatusRoot = "paymentStatus"
	verificationsRoot = "paymentVerifications"
	usersRoot         = "users"
	rewardsRoot       = "referralRewards"
)
