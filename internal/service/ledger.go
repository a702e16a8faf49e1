package service

import "github.com/goserg/guildrating/internal/domain"

// appendRecord puts record in front of the history and drops the oldest
// entries beyond limit. A limit of zero or less keeps everything.
func appendRecord(profile *domain.PlayerProfile, record domain.RatingChangeRecord, limit int) {
	history := make([]domain.RatingChangeRecord, 0, len(profile.History)+1)
	history = append(history, record)
	history = append(history, profile.History...)
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	profile.History = history
}
