package project_test

import (
	"testing"
	"time"

	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	projects := []project.Project{
		{ID: "1", Status: project.StatusCompleted, Progress: 100, DueDate: "2024-01-30", UpdatedAt: now.Add(-4 * time.Hour)},
		{ID: "2", Status: project.StatusInProgress, Progress: 65, DueDate: "2024-02-15", UpdatedAt: now.Add(-time.Hour)},
		{ID: "3", Status: project.StatusPlanning, Progress: 20, DueDate: "2099-03-01", UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: "4", Status: project.StatusPlanning, Progress: 0, DueDate: "", UpdatedAt: now.Add(-3 * time.Hour)},
	}

	sum := project.Summarize(projects, now)
	require.Equal(t, 4, sum.Total)
	require.Equal(t, 46, sum.AverageProgress)
	require.Equal(t, 1, sum.Overdue)
	require.Equal(t, []project.StatusCount{
		{Status: project.StatusPlanning, Count: 2, Percent: 50},
		{Status: project.StatusInProgress, Count: 1, Percent: 25},
		{Status: project.StatusReview, Count: 0, Percent: 0},
		{Status: project.StatusCompleted, Count: 1, Percent: 25},
	}, sum.ByStatus)

	require.Len(t, sum.Recent, project.RecentLimit)
	require.Equal(t, "2", sum.Recent[0].ID)
	require.Equal(t, "3", sum.Recent[1].ID)
	require.Equal(t, "4", sum.Recent[2].ID)
}

func TestSummarize_Empty(t *testing.T) {
	sum := project.Summarize(nil, time.Now())
	require.Equal(t, 0, sum.Total)
	require.Len(t, sum.ByStatus, 4)
	require.Empty(t, sum.Recent)
}
