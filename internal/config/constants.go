package config

const (
	// Complaint creation
	MaxImages       = 5
	DefaultLocation = "Kigali, Rwanda"

	// Leader list age buckets, in days
	RecentWindowDays = 7
	OlderWindowDays  = 90

	// Local storage keys
	KeyComplaints     = "userComplaints"
	KeyUser           = "user"
	KeyToken          = "token"
	KeyOnboarding     = "hasSeenOnboarding"
	KeyNotifications  = "notifications"
	OnboardingSeen    = "true"
	OnboardingNotSeen = "false"
)

// CategoryNames maps the category ids used by the search screen to category names.
var CategoryNames = map[string]string{
	"1": "Health",
	"2": "Security",
	"3": "Entertainment",
	"4": "Nutrition",
	"5": "Governance",
}
