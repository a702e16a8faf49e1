package domain

// Reason classifies a rating change for the audit trail.
type Reason string

const (
	ReasonLadderWinMVPFlawless  Reason = "ladder_win_mvp_flawless"
	ReasonLadderWinMVP          Reason = "ladder_win_mvp"
	ReasonLadderWinFlawless     Reason = "ladder_win_flawless"
	ReasonLadderWin             Reason = "ladder_win"
	ReasonLadderLossMVPFlawless Reason = "ladder_loss_mvp_flawless"
	ReasonLadderLossMVP         Reason = "ladder_loss_mvp"
	ReasonLadderLossFlawless    Reason = "ladder_loss_flawless"
	ReasonLadderLoss            Reason = "ladder_loss"

	ReasonWagerWinMVPFlawless  Reason = "wager_win_mvp_flawless"
	ReasonWagerWinMVP          Reason = "wager_win_mvp"
	ReasonWagerWinFlawless     Reason = "wager_win_flawless"
	ReasonWagerWin             Reason = "wager_win"
	ReasonWagerLossMVPFlawless Reason = "wager_loss_mvp_flawless"
	ReasonWagerLossMVP         Reason = "wager_loss_mvp"
	ReasonWagerLossFlawless    Reason = "wager_loss_flawless"
	ReasonWagerLoss            Reason = "wager_loss"

	ReasonManualAdjustment Reason = "manual_adjustment"
	ReasonManualSet        Reason = "manual_set"
	ReasonReset            Reason = "reset"
	ReasonUndo             Reason = "undo"
)
