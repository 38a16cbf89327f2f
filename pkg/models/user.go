package models

// Subscription level values seen in activity logs.
const (
	LevelFree = "free"
	LevelPaid = "paid"
)

// User is a listener derived from activity records. A user's Level can
// change mid-session (free to paid); the most recent value seen in file
// order wins on load.
type User struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Level     string `json:"level"`
}
