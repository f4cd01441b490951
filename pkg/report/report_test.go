package report_test

import (
	"testing"

	"github.com/elonfeng/bullhorn/pkg/extract"
	"github.com/elonfeng/bullhorn/pkg/forum"
	"github.com/elonfeng/bullhorn/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Enrichment(t *testing.T) {
	topics := []forum.Topic{
		{ID: 1, Title: "Edition One", Views: 10, LikeCount: 2},
	}
	records := []extract.Record{
		{TopicID: 1, User: "Alice", MatrixLink: "https://matrix.to/#/@alice:x"},
		{TopicID: 99, User: "Ghost", MatrixLink: "https://matrix.to/#/@ghost:x"},
	}

	rep := report.Build(topics, records)
	require.Len(t, rep.Lines, 2)
	assert.Equal(t, "Edition One", rep.Lines[0].Title)

	// Unknown topic ids map to an empty title, never an error.
	assert.Equal(t, "", rep.Lines[1].Title)
	assert.Equal(t, "Ghost", rep.Lines[1].User)
}

func TestBuild_TrimAsymmetry(t *testing.T) {
	records := []extract.Record{
		{TopicID: 42, User: "Bob"},
		{TopicID: 42, User: "bob "},
	}

	rep := report.Build(nil, records)

	// Unique-user counting uses exact strings: "Bob" and "bob " differ.
	require.Len(t, rep.UserCounts, 1)
	assert.Equal(t, 42, rep.UserCounts[0].ID)
	assert.Equal(t, 2, rep.UserCounts[0].NumberOfUsers)

	// Totals trim whitespace but keep case: "bob " becomes "bob",
	// still distinct from "Bob".
	require.Len(t, rep.UserTotals, 2)
	names := []string{rep.UserTotals[0].User, rep.UserTotals[1].User}
	assert.ElementsMatch(t, []string{"Bob", "bob"}, names)
}

func TestBuild_TotalsSortedDescending(t *testing.T) {
	records := []extract.Record{
		{TopicID: 1, User: "Alice"},
		{TopicID: 1, User: "Bob"},
		{TopicID: 2, User: "Bob"},
		{TopicID: 2, User: "Carol"},
		{TopicID: 3, User: "Bob"},
		{TopicID: 3, User: "Carol"},
	}

	rep := report.Build(nil, records)
	require.Len(t, rep.UserTotals, 3)

	assert.Equal(t, "Bob", rep.UserTotals[0].User)
	assert.Equal(t, 3, rep.UserTotals[0].Contributions)

	for i := 1; i < len(rep.UserTotals); i++ {
		assert.GreaterOrEqual(t,
			rep.UserTotals[i-1].Contributions,
			rep.UserTotals[i].Contributions,
			"totals must be non-increasing")
	}

	// Tied users keep first-encounter order.
	assert.Equal(t, "Alice", rep.UserTotals[1].User)
	assert.Equal(t, "Carol", rep.UserTotals[2].User)
}

func TestBuild_UserCountOrder(t *testing.T) {
	topics := []forum.Topic{
		{ID: 1, Title: "One"},
		{ID: 2, Title: "Two"},
		{ID: 3, Title: "Three"},
	}
	// Topic 3 appears first among the records, then 1. Topic 2 has no
	// records and must not appear at all.
	records := []extract.Record{
		{TopicID: 3, User: "Alice"},
		{TopicID: 1, User: "Bob"},
		{TopicID: 3, User: "Carol"},
	}

	rep := report.Build(topics, records)
	require.Len(t, rep.UserCounts, 2)
	assert.Equal(t, 3, rep.UserCounts[0].ID)
	assert.Equal(t, "Three", rep.UserCounts[0].Title)
	assert.Equal(t, 2, rep.UserCounts[0].NumberOfUsers)
	assert.Equal(t, 1, rep.UserCounts[1].ID)
}

func TestBuild_Empty(t *testing.T) {
	rep := report.Build(nil, nil)
	assert.Empty(t, rep.Lines)
	assert.Empty(t, rep.UserCounts)
	assert.Empty(t, rep.UserTotals)
}
