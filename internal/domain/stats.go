package domain

import (
	"cmp"
	"slices"
	"time"
)

// TagTime is the time tracked against one tag.
type TagTime struct {
	Tag  string
	Time Duration
}

// TrackedPerTag sums time logged within the last days days (today included)
// per tag. A task's time is split evenly across its tags; untagged time is
// not counted. Discarded tasks are skipped. Results are sorted by tag.
func TrackedPerTag(tasks []*Task, now time.Time, days int) []TagTime {
	cutoff := dateOf(now).AddDate(0, 0, -days)
	times := make(map[string]Duration)
	for _, t := range tasks {
		if t.Discarded || len(t.Tags) == 0 {
			continue
		}
		var total Duration
		for _, e := range t.TimeEntries {
			if dateOf(e.LoggedDate).After(cutoff) {
				total = total.Add(e.Duration)
			}
		}
		share := total.Div(len(t.Tags))
		for _, tag := range t.Tags {
			times[tag] = times[tag].Add(share)
		}
	}

	out := make([]TagTime, 0, len(times))
	for tag, d := range times {
		out = append(out, TagTime{Tag: tag, Time: d})
	}
	slices.SortFunc(out, func(a, b TagTime) int { return cmp.Compare(a.Tag, b.Tag) })
	return out
}

// CompletedSince returns tasks completed within the last days days, most
// recent first.
func CompletedSince(tasks []*Task, now time.Time, days int) []*Task {
	cutoff := dateOf(now).AddDate(0, 0, -days)
	var out []*Task
	for _, t := range tasks {
		if t.Completed != nil && !t.Discarded && dateOf(*t.Completed).After(cutoff) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *Task) int { return b.Completed.Compare(*a.Completed) })
	return out
}
