package webpath

const (
	Home = "/"

	Api            = "/api"
	ApiRanks       = Api + "/ranks"
	ApiLeaderboard = Api + "/leaderboard"
	ApiPlayer      = Api + "/players/:id"
	ApiHistory     = ApiPlayer + "/history"
	ApiAdjust      = ApiPlayer + "/adjust"
	ApiSet         = ApiPlayer + "/set"
	ApiReset       = ApiPlayer + "/reset"
	ApiUndo        = ApiPlayer + "/undo"
	ApiMatches     = Api + "/matches"
	ApiWagers      = Api + "/wagers"
	ApiExport      = Api + "/export"
	ApiImport      = Api + "/import"
	ApiBackup      = Api + "/backup"
)

// Path lists the public routes served under Api.
func Path() map[string]string {
	return map[string]string{
		"Ranks":       ApiRanks,
		"Leaderboard": ApiLeaderboard,
		"Player":      ApiPlayer,
		"History":     ApiHistory,
	}
}
