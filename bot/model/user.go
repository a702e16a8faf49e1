package model

import "time"

type EventType string

const (
	TierChange EventType = "tier_change"
	DailyTop   EventType = "daily_top"
)

// ParseEventType accepts the short names used in chat commands.
func ParseEventType(s string) (EventType, bool) {
	switch s {
	case "tier", string(TierChange):
		return TierChange, true
	case "top", string(DailyTop):
		return DailyTop, true
	}
	return "", false
}

type UserRole int

const (
	RoleAdmin         UserRole = 1
	RoleModerator     UserRole = 2
	RoleUser          UserRole = 3
	RoleScoreOperator UserRole = 4
)

var AllRoles = []UserRole{RoleAdmin, RoleModerator, RoleUser, RoleScoreOperator}

// String returns the role name used in the permission config.
func (r UserRole) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleUser:
		return "user"
	case RoleScoreOperator:
		return "score_operator"
	}
	return "unknown"
}

func ParseRole(s string) (UserRole, bool) {
	for _, r := range AllRoles {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

type User struct {
	ID        int
	FirstName string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Role UserRole

	Subscriptions []EventType
}
