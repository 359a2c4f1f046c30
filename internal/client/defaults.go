package client

import (
	"time"

	"github.com/rpggio/pmdash/internal/domain/project"
)

// Default demo account, present until the first sign-up persists the actor list.
const (
	DemoUserID       = "demo-user-1"
	DemoUserEmail    = "demo@example.com"
	DemoUserName     = "Demo User"
	DemoUserPassword = "demo123"
)

func avatar(photo string) string {
	return "https://images.unsplash.com/" + photo + "?w=32&h=32&fit=crop&crop=face"
}

func day(s string) time.Time {
	t, err := time.Parse(project.DueDateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// defaultProjects returns the sample projects shown to an actor with no
// stored collection, owned by ownerID.
func defaultProjects(ownerID string) []project.Project {
	return []project.Project{
		{
			ID:          "proj_1640995200000",
			Name:        "Website Redesign",
			Description: "Complete overhaul of the company website",
			Status:      project.StatusInProgress,
			Priority:    project.PriorityHigh,
			Assignee: project.Assignee{
				Name:     "Alice Johnson",
				Avatar:   avatar("photo-1494790108755-2616b612b786"),
				Initials: "AJ",
			},
			DueDate:   "2024-02-15",
			Progress:  65,
			CreatedAt: day("2024-01-01"),
			UpdatedAt: day("2024-01-15"),
			UserID:    ownerID,
		},
		{
			ID:          "proj_1641081600000",
			Name:        "Mobile App Development",
			Description: "Native mobile app for iOS and Android",
			Status:      project.StatusPlanning,
			Priority:    project.PriorityMedium,
			Assignee: project.Assignee{
				Name:     "Bob Smith",
				Avatar:   avatar("photo-1599566150163-29194dcaad36"),
				Initials: "BS",
			},
			DueDate:   "2024-03-01",
			Progress:  20,
			CreatedAt: day("2024-01-05"),
			UpdatedAt: day("2024-01-10"),
			UserID:    ownerID,
		},
		{
			ID:          "proj_1641168000000",
			Name:        "Database Migration",
			Description: "Migrate to new database infrastructure",
			Status:      project.StatusCompleted,
			Priority:    project.PriorityHigh,
			Assignee: project.Assignee{
				Name:     "Carol Wilson",
				Avatar:   avatar("photo-1438761681033-6461ffad8d80"),
				Initials: "CW",
			},
			DueDate:   "2024-01-30",
			Progress:  100,
			CreatedAt: day("2024-01-01"),
			UpdatedAt: day("2024-01-30"),
			UserID:    ownerID,
		},
	}
}
