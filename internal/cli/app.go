package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/pmdash/internal/client"
	"github.com/rpggio/pmdash/internal/config"
)

// AppContext holds the adapters shared by CLI commands.
type AppContext struct {
	Config   config.ClientConfig
	Client   *client.Client
	Sessions client.SessionAdapter
	// Projects reports successful mutations on the command's output.
	Projects    client.RecordStore
	Preferences client.PreferenceStore
	Out         io.Writer
}

// NewAppContext loads the client configuration, opens the local state and
// restores any persisted session.
func NewAppContext(cmd *cobra.Command) (*AppContext, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := client.New(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local state: %w", err)
	}

	out := cmd.OutOrStdout()
	return &AppContext{
		Config:      cfg,
		Client:      c,
		Sessions:    c.Sessions,
		Projects:    client.NewNotifyingStore(c.Projects, func(msg string) { printSuccess(out, msg) }),
		Preferences: c.Preferences,
		Out:         out,
	}, nil
}

// Close releases the local state.
func (a *AppContext) Close() error {
	return a.Client.Close()
}

// requestContext bounds one adapter call by the configured timeout.
func (a *AppContext) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.Config.Timeout)
}

// withApp runs fn with an AppContext that is closed afterwards.
func withApp(fn func(cmd *cobra.Command, app *AppContext, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := NewAppContext(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, app, args)
	}
}

// requireSession fails with a hint when nobody is signed in.
func (a *AppContext) requireSession() error {
	if _, ok := a.Sessions.Current(); ok {
		return nil
	}
	if a.Client.Demo {
		fmt.Fprintln(a.Out, demoBanner())
	}
	return fmt.Errorf("not signed in, run: dashboard signin --email <email> --password <password>")
}
