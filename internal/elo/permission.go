package elo

import mapset "github.com/deckarep/golang-set/v2"

// Permissions lists the role ids allowed to change ratings.
type Permissions struct {
	ScoreOperatorRoles []string `toml:"score_operator_roles"`
	ModeratorRoles     []string `toml:"moderator_roles"`
}

// Actor is whoever triggers a rating operation.
type Actor struct {
	ID    string
	Roles []string
}

// HasRatingPermission reports whether actor holds at least one score
// operator or moderator role.
func HasRatingPermission(actor Actor, perms Permissions) bool {
	allowed := mapset.NewSet[string](perms.ScoreOperatorRoles...)
	for _, role := range perms.ModeratorRoles {
		allowed.Add(role)
	}
	for _, role := range actor.Roles {
		if allowed.Contains(role) {
			return true
		}
	}
	return false
}
