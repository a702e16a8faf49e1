package tgbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/service"
)

const dateFormat = "02.01.2006 15:04"

func printProfile(p domain.PlayerProfile) string {
	tier := elo.Classify(p.CurrentRating)
	var buf strings.Builder
	buf.WriteString("Игрок: ")
	buf.WriteString(p.PlayerID)
	buf.WriteString("\n")
	buf.WriteString("Рейтинг: ")
	buf.WriteString(strconv.Itoa(p.CurrentRating))
	buf.WriteString("\n")
	buf.WriteString("Ранг: ")
	buf.WriteString(tier.DisplayName)
	buf.WriteString(" (")
	buf.WriteString(strconv.Itoa(tier.Progress))
	buf.WriteString("%)\n")
	if next, ok := elo.NextTier(p.CurrentRating); ok {
		fmt.Fprintf(&buf, "До ранга %s: %d\n", next.DisplayName, next.RatingToNext)
	}
	buf.WriteString("Лучший рейтинг: ")
	buf.WriteString(strconv.Itoa(p.PeakRating))
	buf.WriteString("\n")
	buf.WriteString("MVP: ")
	buf.WriteString(strconv.Itoa(p.MVPCount))
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "Сухие победы/поражения: %d/%d", p.FlawlessWins, p.FlawlessLosses)
	if p.LastUpdate != nil {
		buf.WriteString("\nОбновлен: ")
		buf.WriteString(p.LastUpdate.Format(dateFormat))
	}
	return buf.String()
}

func prettifyRank(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return strconv.Itoa(position) + "."
}

func printLeaderboard(profiles []domain.PlayerProfile) string {
	if len(profiles) == 0 {
		return "рейтинг пока пуст"
	}
	var buf strings.Builder
	for i, p := range profiles {
		buf.WriteString(prettifyRank(i + 1))
		buf.WriteString(" ")
		buf.WriteString(p.PlayerID)
		buf.WriteString(" (")
		buf.WriteString(strconv.Itoa(p.CurrentRating))
		buf.WriteString(", ")
		buf.WriteString(elo.Classify(p.CurrentRating).DisplayName)
		buf.WriteString(")\n")
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func printRecord(r domain.RatingChangeRecord) string {
	var buf strings.Builder
	buf.WriteString(r.Date.Format(dateFormat))
	buf.WriteString(" ")
	fmt.Fprintf(&buf, "%+d → %d", r.Delta, r.ResultingRating)
	buf.WriteString(" [")
	buf.WriteString(string(r.Reason))
	buf.WriteString("]")
	if r.MatchOutcome != "" {
		buf.WriteString(" ")
		buf.WriteString(string(r.MatchOutcome))
	}
	if r.GroupName != "" {
		buf.WriteString(" ")
		buf.WriteString(r.GroupName)
	}
	if r.Note != "" {
		buf.WriteString(" «")
		buf.WriteString(r.Note)
		buf.WriteString("»")
	}
	return buf.String()
}

func printUpdate(u service.UpdateOutcome) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %d → %d (%+d)", u.PlayerID, u.OldRating, u.NewRating, u.Record.Delta)
	if u.TierChange.Changed {
		buf.WriteString(" ")
		buf.WriteString(printTierArrow(u.TierChange))
	}
	return buf.String()
}

func printTierArrow(change elo.TierChange) string {
	icon := "⬆️"
	if change.Direction == elo.Demotion {
		icon = "⬇️"
	}
	return icon + " " + change.NewTier.DisplayName
}

func printBatch(out service.BatchOutcome) string {
	var buf strings.Builder
	buf.WriteString("Матч ")
	buf.WriteString(out.MatchID)
	buf.WriteString(" учтен\n")
	for _, u := range out.Updates {
		buf.WriteString(printUpdate(u))
		buf.WriteString("\n")
	}
	if len(out.Errors) > 0 {
		buf.WriteString("Ошибки:\n")
		for _, e := range out.Errors {
			buf.WriteString(e.Error())
			buf.WriteString("\n")
		}
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func printTierChange(playerID string, change elo.TierChange) string {
	if change.Direction == elo.Promotion {
		return fmt.Sprintf("🎉 %s повышен до ранга %s", playerID, change.NewTier.DisplayName)
	}
	return fmt.Sprintf("%s понижен до ранга %s", playerID, change.NewTier.DisplayName)
}
