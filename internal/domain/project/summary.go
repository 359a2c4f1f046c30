package project

import (
	"math"
	"sort"
	"time"
)

// RecentLimit is how many recently updated projects a summary carries.
const RecentLimit = 3

// StatusCount is the number and share of projects in one status
type StatusCount struct {
	Status  Status `json:"status"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// Summary is an aggregate view of a project collection
type Summary struct {
	Total           int           `json:"total"`
	ByStatus        []StatusCount `json:"byStatus"`
	AverageProgress int           `json:"averageProgress"`
	Overdue         int           `json:"overdue"`
	Recent          []Project     `json:"recent"`
}

// Summarize computes status counts with rounded percentages, the average
// progress, the number of overdue unfinished projects and the most recently
// updated projects.
func Summarize(projects []Project, now time.Time) Summary {
	sum := Summary{Total: len(projects), ByStatus: make([]StatusCount, 0, len(Statuses))}

	counts := make(map[Status]int, len(Statuses))
	today := now.Format(DueDateLayout)
	progress := 0
	for _, p := range projects {
		counts[p.Status]++
		progress += p.Progress
		if p.Status != StatusCompleted && p.DueDate != "" && p.DueDate < today {
			sum.Overdue++
		}
	}
	for _, st := range Statuses {
		sum.ByStatus = append(sum.ByStatus, StatusCount{
			Status:  st,
			Count:   counts[st],
			Percent: percent(counts[st], sum.Total),
		})
	}
	if sum.Total > 0 {
		sum.AverageProgress = int(math.Round(float64(progress) / float64(sum.Total)))
	}

	recent := make([]Project, len(projects))
	copy(recent, projects)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	sum.Recent = recent
	return sum
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
