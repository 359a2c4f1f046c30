package project_test

import (
	"testing"

	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func sampleProjects() []project.Project {
	return []project.Project{
		{ID: "1", Name: "Website Redesign", Status: project.StatusInProgress, Priority: project.PriorityHigh, Progress: 65, DueDate: "2024-02-15", Assignee: project.Assignee{Name: "Alice Johnson"}},
		{ID: "2", Name: "Mobile App Development", Status: project.StatusPlanning, Priority: project.PriorityMedium, Progress: 20, DueDate: "2024-03-01", Assignee: project.Assignee{Name: "Bob Smith"}},
		{ID: "3", Name: "Database Migration", Status: project.StatusCompleted, Priority: project.PriorityHigh, Progress: 100, DueDate: "2024-01-30", Assignee: project.Assignee{Name: "Carol Wilson"}},
	}
}

func ids(projects []project.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func TestQuery_DefaultSortsByName(t *testing.T) {
	got := project.Query{}.Apply(sampleProjects())
	require.Equal(t, []string{"3", "2", "1"}, ids(got))
}

func TestQuery_SearchMatchesNameOrAssignee(t *testing.T) {
	got := project.Query{Search: "BOB"}.Apply(sampleProjects())
	require.Equal(t, []string{"2"}, ids(got))

	got = project.Query{Search: "redesign"}.Apply(sampleProjects())
	require.Equal(t, []string{"1"}, ids(got))
}

func TestQuery_Filters(t *testing.T) {
	got := project.Query{Priority: project.PriorityHigh, SortBy: project.SortByProgress}.Apply(sampleProjects())
	require.Equal(t, []string{"1", "3"}, ids(got))

	got = project.Query{Status: project.StatusPlanning}.Apply(sampleProjects())
	require.Equal(t, []string{"2"}, ids(got))
}

func TestQuery_DescendingDueDate(t *testing.T) {
	input := sampleProjects()
	got := project.Query{SortBy: project.SortByDueDate, Descending: true}.Apply(input)
	require.Equal(t, []string{"2", "1", "3"}, ids(got))
	require.Equal(t, "1", input[0].ID)
}
