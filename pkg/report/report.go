// Package report aggregates extracted contribution records against the
// topic listing and exports the results.
package report

import (
	"sort"
	"strings"

	"github.com/elonfeng/bullhorn/pkg/extract"
	"github.com/elonfeng/bullhorn/pkg/forum"
)

// Line is one contribution record joined with its edition title. Topics
// missing from the listing get an empty title, never an error.
type Line struct {
	PostID     int    `json:"post_id"`
	Title      string `json:"title"`
	User       string `json:"user"`
	MatrixLink string `json:"matrix_link"`
}

// UserCount is the distinct-contributor count for one edition. Names
// dedupe by exact string: no case folding, no whitespace trimming.
type UserCount struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	NumberOfUsers int    `json:"number_of_users"`
}

// UserTotal is one contributor's record count across all editions.
// Names are trimmed of leading/trailing whitespace before counting,
// which intentionally differs from UserCount's exact-string semantics.
type UserTotal struct {
	User          string `json:"user"`
	Contributions int    `json:"contributions"`
}

// Report holds the full aggregation of one collect run.
type Report struct {
	Topics     []forum.Topic `json:"topics"`
	Lines      []Line        `json:"lines"`
	UserCounts []UserCount   `json:"user_counts"`
	UserTotals []UserTotal   `json:"user_totals"`
}

// Build joins records with topics and computes both aggregates.
//
// Row ordering: Lines follow record order; UserCounts follow the first
// encounter of each topic id among the records; UserTotals sort by
// contribution count descending, ties keeping first-encounter order.
// The tie order is stable but implementation-defined, not a contract.
func Build(topics []forum.Topic, records []extract.Record) *Report {
	titles := forum.TitleByID(topics)

	lines := make([]Line, 0, len(records))
	for _, r := range records {
		lines = append(lines, Line{
			PostID:     r.TopicID,
			Title:      titles[r.TopicID],
			User:       r.User,
			MatrixLink: r.MatrixLink,
		})
	}

	return &Report{
		Topics:     topics,
		Lines:      lines,
		UserCounts: countUsersPerTopic(titles, records),
		UserTotals: totalsPerUser(records),
	}
}

func countUsersPerTopic(titles map[int]string, records []extract.Record) []UserCount {
	var order []int
	users := make(map[int]map[string]struct{})

	for _, r := range records {
		set, ok := users[r.TopicID]
		if !ok {
			set = make(map[string]struct{})
			users[r.TopicID] = set
			order = append(order, r.TopicID)
		}
		set[r.User] = struct{}{}
	}

	counts := make([]UserCount, 0, len(order))
	for _, id := range order {
		counts = append(counts, UserCount{
			ID:            id,
			Title:         titles[id],
			NumberOfUsers: len(users[id]),
		})
	}
	return counts
}

func totalsPerUser(records []extract.Record) []UserTotal {
	var order []string
	counts := make(map[string]int)

	for _, r := range records {
		user := strings.TrimSpace(r.User)
		if _, ok := counts[user]; !ok {
			order = append(order, user)
		}
		counts[user]++
	}

	totals := make([]UserTotal, 0, len(order))
	for _, user := range order {
		totals = append(totals, UserTotal{User: user, Contributions: counts[user]})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Contributions > totals[j].Contributions
	})
	return totals
}
