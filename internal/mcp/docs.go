package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pmdash manages the caller's projects and dashboard preferences.

- A project has a name, optional description, status (Planning, In Progress, Review, Completed),
  priority (Low, Medium, High, Critical), assignee, due date (YYYY-MM-DD) and progress (0-100).
- New projects always start at progress 0. Use update_project to move progress or status.
- update_project only changes the fields you pass.
- project_summary returns counts per status, average progress, overdue count and recent projects.

Docs: pmdash://docs/projects
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pmdash://docs/projects",
		Name:        "docs_projects",
		Title:       "Project fields and workflow",
		Description: "Field reference for projects and the usual create, update, delete flow.",
		Content: `# Projects

| Field | Notes |
|---|---|
| id | assigned on create, "proj_" prefix |
| name | required |
| status | Planning, In Progress, Review, Completed (default Planning) |
| priority | Low, Medium, High, Critical (default Medium) |
| dueDate | YYYY-MM-DD, optional |
| progress | 0-100, starts at 0 |
| assignee | defaults to the caller |

## Typical flow

1. list_projects (filter with search, status, priority; sort with sort_by)
2. create_project
3. update_project with only the changed fields
4. delete_project (deleting twice is not an error)
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
