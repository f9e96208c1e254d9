// Package schedule spreads planned content across a campaign's posting
// window. Distribution is pure and deterministic: the same drafts in the
// same order always land on the same dates and platforms.
package schedule

import (
	"time"

	"postforge/internal/content"
)

// IdeaDraft is a validated idea as returned by the text provider, before a
// date and platform have been assigned.
type IdeaDraft struct {
	Title       string
	Concept     string
	ContentType content.ContentType
	Topics      []string
	Tone        string
	Objective   content.Objective
	Priority    content.Priority
}

// Distribute assigns each draft a scheduled date inside the range and a
// platform cycled from the requested list.
//
// totalDays = ceil(span / 24h), floored at 1 so a single-day campaign
// (start == end) never divides by zero. postsPerDay = ceil(n / totalDays).
// Draft i lands on start + (i / postsPerDay) days and platforms[i % P].
// Every produced date lies within [start, start+totalDays).
func Distribute(drafts []IdeaDraft, dateRange content.DateRange, platforms []string, newID func() string) []content.ContentIdea {
	if len(drafts) == 0 {
		return []content.ContentIdea{}
	}

	span := dateRange.End.Sub(dateRange.Start)
	totalDays := int(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		totalDays++
	}
	if totalDays < 1 {
		totalDays = 1
	}

	postsPerDay := (len(drafts) + totalDays - 1) / totalDays

	ideas := make([]content.ContentIdea, 0, len(drafts))
	for i, draft := range drafts {
		dayOffset := i / postsPerDay
		if dayOffset >= totalDays {
			dayOffset = totalDays - 1 // guard; cannot happen with ceil division
		}

		ideas = append(ideas, content.ContentIdea{
			ID:            newID(),
			Title:         draft.Title,
			Concept:       draft.Concept,
			ContentType:   draft.ContentType,
			Platform:      platforms[i%len(platforms)],
			ScheduledDate: dateRange.Start.AddDate(0, 0, dayOffset),
			Topics:        draft.Topics,
			Tone:          draft.Tone,
			Objective:     draft.Objective,
			Priority:      draft.Priority,
		})
	}

	return ideas
}
