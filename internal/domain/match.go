package domain

// MatchOutcome is the score line of a match from the perspective of the
// player it is applied to.
type MatchOutcome string

const (
	Outcome20 MatchOutcome = "2-0"
	Outcome21 MatchOutcome = "2-1"
	Outcome12 MatchOutcome = "1-2"
	Outcome02 MatchOutcome = "0-2"

	OutcomeWagerWin      MatchOutcome = "wager-win"
	OutcomeWagerLoss     MatchOutcome = "wager-loss"
	OutcomeWagerWipeWin  MatchOutcome = "wager-wipe-win"
	OutcomeWagerWipeLoss MatchOutcome = "wager-wipe-loss"
)

var outcomes = map[MatchOutcome]struct {
	flawless bool
	wager    bool
	mirror   MatchOutcome
}{
	Outcome20:            {flawless: true, mirror: Outcome02},
	Outcome21:            {mirror: Outcome12},
	Outcome12:            {mirror: Outcome21},
	Outcome02:            {flawless: true, mirror: Outcome20},
	OutcomeWagerWin:      {wager: true, mirror: OutcomeWagerLoss},
	OutcomeWagerLoss:     {wager: true, mirror: OutcomeWagerWin},
	OutcomeWagerWipeWin:  {flawless: true, wager: true, mirror: OutcomeWagerWipeLoss},
	OutcomeWagerWipeLoss: {flawless: true, wager: true, mirror: OutcomeWagerWipeWin},
}

// Valid reports whether o is one of the recognized outcome codes.
func (o MatchOutcome) Valid() bool {
	_, ok := outcomes[o]
	return ok
}

func (o MatchOutcome) IsFlawless() bool {
	return outcomes[o].flawless
}

func (o MatchOutcome) IsWager() bool {
	return outcomes[o].wager
}

// Mirror returns the same result seen from the other side.
func (o MatchOutcome) Mirror() MatchOutcome {
	return outcomes[o].mirror
}

// MatchContext describes the circumstances a single rating change is
// computed for.
type MatchContext struct {
	IsWinner     bool         `json:"isWinner"`
	IsMVP        bool         `json:"isMvp"`
	IsFlawless   bool         `json:"isFlawless"`
	IsWagerMatch bool         `json:"isWagerMatch"`
	Outcome      MatchOutcome `json:"matchOutcome"`
}

// MatchResult is a finished team ladder match. Outcome is given from the
// winning side, the losing side receives Outcome.Mirror().
type MatchResult struct {
	MatchID       string
	WinnerTeam    string
	LoserTeam     string
	WinnerPlayers []string
	LoserPlayers  []string
	WinnerMVP     string
	LoserMVP      string
	Outcome       MatchOutcome
}

// WagerResult is a finished 1v1 wager.
type WagerResult struct {
	MatchID  string
	WinnerID string
	LoserID  string
	Wipe     bool
}
