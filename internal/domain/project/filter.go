package project

import (
	"sort"
	"strings"
)

// SortField names a column projects can be ordered by.
type SortField string

const (
	SortByName     SortField = "name"
	SortByStatus   SortField = "status"
	SortByPriority SortField = "priority"
	SortByAssignee SortField = "assigneeName"
	SortByDueDate  SortField = "dueDate"
	SortByProgress SortField = "progress"
)

// Query selects and orders projects for display.
// Empty Status or Priority means "all".
type Query struct {
	Search     string
	Status     Status
	Priority   Priority
	SortBy     SortField
	Descending bool
}

// Apply returns the matching projects in the requested order.
// The input slice is not modified.
func (q Query) Apply(projects []Project) []Project {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Assignee.Name), term) {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.Priority != "" && p.Priority != q.Priority {
			continue
		}
		out = append(out, p)
	}

	less := q.less()
	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func (q Query) less() func(a, b Project) bool {
	switch q.SortBy {
	case SortByStatus:
		return func(a, b Project) bool { return a.Status < b.Status }
	case SortByPriority:
		return func(a, b Project) bool { return a.Priority < b.Priority }
	case SortByAssignee:
		return func(a, b Project) bool { return a.Assignee.Name < b.Assignee.Name }
	case SortByDueDate:
		// YYYY-MM-DD sorts lexically
		return func(a, b Project) bool { return a.DueDate < b.DueDate }
	case SortByProgress:
		return func(a, b Project) bool { return a.Progress < b.Progress }
	default:
		return func(a, b Project) bool { return a.Name < b.Name }
	}
}
