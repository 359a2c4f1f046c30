package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/pmdash/internal/domain/project"
)

var (
	listSearch   string
	listStatus   string
	listPriority string
	listSort     string
	listDesc     bool

	projName        string
	projDescription string
	projStatus      string
	projPriority    string
	projDue         string
	projAssignee    string
	projProgress    int
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"p"},
	Short:   "Manage projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long: `List projects, optionally filtered and sorted.

The search term matches project names and assignee names, case-insensitively.`,
	RunE: withApp(runProjectsList),
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE:  withApp(runProjectsCreate),
}

var projectsUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Change fields of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runProjectsUpdate),
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runProjectsDelete),
}

var projectsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals by status, average progress and recent activity",
	RunE:  withApp(runProjectsSummary),
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsCreateCmd, projectsUpdateCmd, projectsDeleteCmd, projectsSummaryCmd)

	projectsListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by project or assignee name")
	projectsListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	projectsListCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority")
	projectsListCmd.Flags().StringVar(&listSort, "sort", string(project.SortByName), "Sort by name, status, priority, assigneeName, dueDate or progress")
	projectsListCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")

	for _, c := range []*cobra.Command{projectsCreateCmd, projectsUpdateCmd} {
		c.Flags().StringVarP(&projName, "name", "n", "", "Project name")
		c.Flags().StringVarP(&projDescription, "description", "d", "", "Description")
		c.Flags().StringVar(&projStatus, "status", "", "Planning, In Progress, Review or Completed")
		c.Flags().StringVar(&projPriority, "priority", "", "Low, Medium, High or Critical")
		c.Flags().StringVar(&projDue, "due", "", "Due date (YYYY-MM-DD)")
		c.Flags().StringVar(&projAssignee, "assignee", "", "Assignee name")
	}
	projectsUpdateCmd.Flags().IntVar(&projProgress, "progress", 0, "Progress percentage (0-100)")
}

func runProjectsList(cmd *cobra.Command, app *AppContext, _ []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return err
	}

	query := project.Query{
		Search:     listSearch,
		Status:     project.Status(listStatus),
		Priority:   project.Priority(listPriority),
		SortBy:     project.SortField(listSort),
		Descending: listDesc,
	}
	shown := query.Apply(projects)
	if len(shown) == 0 {
		fmt.Fprintln(app.Out, mutedStyle.Render("No projects found."))
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPRIORITY\tASSIGNEE\tDUE\tPROGRESS")
	for _, p := range shown {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			truncate(p.Name, 32),
			p.Status,
			p.Priority,
			p.Assignee.Name,
			orDash(p.DueDate),
			progressBar(p.Progress),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(app.Out, mutedStyle.Render(fmt.Sprintf("%d of %d projects", len(shown), len(projects))))
	return nil
}

func runProjectsCreate(cmd *cobra.Command, app *AppContext, _ []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	req := project.CreateRequest{
		Name:        projName,
		Description: projDescription,
		Status:      project.Status(projStatus),
		Priority:    project.Priority(projPriority),
		DueDate:     projDue,
	}
	if projAssignee != "" {
		a := project.AssigneeFor(projAssignee, "")
		req.Assignee = &a
	}

	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	p, err := app.Projects.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, mutedStyle.Render(p.ID))
	return nil
}

func runProjectsUpdate(cmd *cobra.Command, app *AppContext, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	patch := patchFromFlags(cmd)
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update, pass at least one field flag")
	}

	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	p, err := app.Projects.Update(ctx, args[0], patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "%s  %s  %s\n", p.Name, renderStatus(p.Status), progressBar(p.Progress))
	return nil
}

func patchFromFlags(cmd *cobra.Command) project.Patch {
	var patch project.Patch
	flags := cmd.Flags()
	if flags.Changed("name") {
		patch.Name = &projName
	}
	if flags.Changed("description") {
		patch.Description = &projDescription
	}
	if flags.Changed("status") {
		s := project.Status(projStatus)
		patch.Status = &s
	}
	if flags.Changed("priority") {
		p := project.Priority(projPriority)
		patch.Priority = &p
	}
	if flags.Changed("due") {
		patch.DueDate = &projDue
	}
	if flags.Changed("assignee") {
		a := project.AssigneeFor(projAssignee, "")
		patch.Assignee = &a
	}
	if flags.Changed("progress") {
		patch.Progress = &projProgress
	}
	return patch
}

func runProjectsDelete(cmd *cobra.Command, app *AppContext, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	return app.Projects.Delete(ctx, args[0])
}

func runProjectsSummary(cmd *cobra.Command, app *AppContext, _ []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return err
	}
	sum := project.Summarize(projects, time.Now())

	fmt.Fprintln(app.Out, headingStyle.Render(fmt.Sprintf("%d projects", sum.Total)))
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	for _, sc := range sum.ByStatus {
		fmt.Fprintf(w, "%s\t%d\t%d%%\n", renderStatus(sc.Status), sc.Count, sc.Percent)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Average progress: %s\n", progressBar(sum.AverageProgress))
	if sum.Overdue > 0 {
		fmt.Fprintln(app.Out, errorStyle.Render(fmt.Sprintf("Overdue: %d", sum.Overdue)))
	}

	if len(sum.Recent) > 0 {
		fmt.Fprintln(app.Out)
		fmt.Fprintln(app.Out, headingStyle.Render("Recently updated"))
		for _, p := range sum.Recent {
			fmt.Fprintf(app.Out, "  %s  %s  %s\n", p.Name, renderPriority(p.Priority),
				mutedStyle.Render(p.UpdatedAt.Local().Format("2006-01-02 15:04")))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
