package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
)

// ListProjectsParams filters and sorts list_projects output.
type ListProjectsParams struct {
	Search     string `json:"search,omitempty" jsonschema:"case-insensitive match on name or assignee"`
	Status     string `json:"status,omitempty" jsonschema:"only projects in this status"`
	Priority   string `json:"priority,omitempty" jsonschema:"only projects with this priority"`
	SortBy     string `json:"sort_by,omitempty" jsonschema:"name, status, priority, assigneeName, dueDate or progress"`
	Descending bool   `json:"descending,omitempty" jsonschema:"reverse the sort order"`
}

// CreateProjectParams are the inputs of create_project.
type CreateProjectParams struct {
	Name         string `json:"name" jsonschema:"project display name"`
	Description  string `json:"description,omitempty" jsonschema:"project description"`
	Status       string `json:"status,omitempty" jsonschema:"initial status, default Planning"`
	Priority     string `json:"priority,omitempty" jsonschema:"priority, default Medium"`
	DueDate      string `json:"due_date,omitempty" jsonschema:"due date as YYYY-MM-DD"`
	AssigneeName string `json:"assignee_name,omitempty" jsonschema:"assignee, defaults to the caller"`
}

// UpdateProjectParams are the inputs of update_project. Omitted fields are unchanged.
type UpdateProjectParams struct {
	ID           string  `json:"id" jsonschema:"project ID"`
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       *string `json:"status,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	DueDate      *string `json:"due_date,omitempty" jsonschema:"due date as YYYY-MM-DD"`
	Progress     *int    `json:"progress,omitempty" jsonschema:"0 to 100"`
	AssigneeName *string `json:"assignee_name,omitempty"`
}

// DeleteProjectParams are the inputs of delete_project.
type DeleteProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

// SetPreferencesParams are the inputs of set_preferences.
type SetPreferencesParams struct {
	Preferences map[string]any `json:"preferences" jsonschema:"full preferences document, replaces the stored one"`
}

type noParams struct{}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the caller's projects, optionally filtered and sorted",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		actor, ok := getActor(ctx)
		if !ok {
			return nil, nil, MapError(ErrNoActor)
		}
		projects, err := svc.Projects.List(ctx, actor.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		query := project.Query{
			Search:     in.Search,
			Status:     project.Status(in.Status),
			Priority:   project.Priority(in.Priority),
			SortBy:     project.SortField(in.SortBy),
			Descending: in.Descending,
		}
		return jsonResult(map[string]any{"projects": query.Apply(projects)})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project owned by the caller",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		actor, ok := getActor(ctx)
		if !ok {
			return nil, nil, MapError(ErrNoActor)
		}
		assignee := project.AssigneeFor(actor.Name, actor.Email)
		if in.AssigneeName != "" {
			assignee = project.AssigneeFor(in.AssigneeName, "")
		}
		proj, err := svc.Projects.Create(ctx, actor.ID, project.CreateRequest{
			Name:        in.Name,
			Description: in.Description,
			Status:      project.Status(in.Status),
			Priority:    project.Priority(in.Priority),
			DueDate:     in.DueDate,
			Assignee:    &assignee,
		})
		if err != nil {
			return nil, nil, MapError(err)
		}
		return jsonResult(map[string]any{"project": proj})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Change some fields of a project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		actor, ok := getActor(ctx)
		if !ok {
			return nil, nil, MapError(ErrNoActor)
		}
		proj, err := svc.Projects.Update(ctx, actor.ID, in.ID, in.patch())
		if err != nil {
			return nil, nil, MapError(err)
		}
		return jsonResult(map[string]any{"project": proj})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteProjectParams) (*sdkmcp.CallToolResult, any, error) {
		actor, ok := getActor(ctx)
		if !ok {
			return nil, nil, MapError(ErrNoActor)
		}
		if err := svc.Projects.Delete(ctx, actor.ID, in.ID); err != nil {
			return nil, nil, MapError(err)
		}
		return jsonResult(map[string]any{"success": true})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_summary",
		Description: "Summarize the caller's projects: status counts, average progress, overdue and recent",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ noParams) (*sdkmcp.CallToolResult, any, error) {
		actor, ok := getActor(ctx)
		if !ok {
			return nil, nil, MapError(ErrNoActor)
		}
		summary, err := svc.Projects.Summary(ctx, actor.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return jsonResult(map[string]any{"summary": summary})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_preferences",
		Description: "Get the caller's dashboard preferences",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ noParams) (*sdkmcp.CallToolResult, any, error) {
		actor, ok := getActor(ctx)
		if !ok {
			return nil, nil, MapError(ErrNoActor)
		}
		prefs, err := svc.Preferences.Get(ctx, actor.ID)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return jsonResult(map[string]any{"preferences": prefs})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_preferences",
		Description: "Replace the caller's dashboard preferences",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetPreferencesParams) (*sdkmcp.CallToolResult, any, error) {
		actor, ok := getActor(ctx)
		if !ok {
			return nil, nil, MapError(ErrNoActor)
		}
		prefs, err := svc.Preferences.Save(ctx, actor.ID, preference.Preferences(in.Preferences))
		if err != nil {
			return nil, nil, MapError(err)
		}
		return jsonResult(map[string]any{"preferences": prefs})
	})
}

func (in UpdateProjectParams) patch() project.Patch {
	patch := project.Patch{
		Name:        in.Name,
		Description: in.Description,
		DueDate:     in.DueDate,
		Progress:    in.Progress,
	}
	if in.Status != nil {
		status := project.Status(*in.Status)
		patch.Status = &status
	}
	if in.Priority != nil {
		priority := project.Priority(*in.Priority)
		patch.Priority = &priority
	}
	if in.AssigneeName != nil {
		assignee := project.AssigneeFor(*in.AssigneeName, "")
		patch.Assignee = &assignee
	}
	return patch
}

// jsonResult renders payload as a single JSON text block.
func jsonResult(payload any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
