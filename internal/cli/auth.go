package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpggio/pmdash/internal/domain/session"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

var signUpCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE:  withApp(runSignUp),
}

var signInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and remember the session",
	RunE:  withApp(runSignIn),
}

var signOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Forget the current session",
	RunE:  withApp(runSignOut),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  withApp(runWhoami),
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Change the signed-in user's name or email",
	RunE:  withApp(runProfile),
}

func init() {
	rootCmd.AddCommand(signUpCmd, signInCmd, signOutCmd, whoamiCmd, profileCmd)

	signUpCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address")
	signUpCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password (at least 6 characters)")
	signUpCmd.Flags().StringVarP(&authName, "name", "n", "", "Display name")

	signInCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address")
	signInCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password")

	profileCmd.Flags().StringVarP(&authName, "name", "n", "", "New display name")
	profileCmd.Flags().StringVarP(&authEmail, "email", "e", "", "New email address")
}

func runSignUp(cmd *cobra.Command, app *AppContext, _ []string) error {
	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	err := app.Sessions.SignUp(ctx, session.SignUpRequest{
		Email:    authEmail,
		Password: authPassword,
		Name:     authName,
	})
	if err != nil {
		return err
	}
	printSuccess(app.Out, "Account created. Sign in with: dashboard signin --email "+authEmail)
	return nil
}

func runSignIn(cmd *cobra.Command, app *AppContext, _ []string) error {
	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	sess, err := app.Sessions.SignIn(ctx, authEmail, authPassword)
	if err != nil {
		return err
	}
	printSuccess(app.Out, fmt.Sprintf("Signed in as %s <%s>", sess.Actor.Name, sess.Actor.Email))
	return nil
}

func runSignOut(cmd *cobra.Command, app *AppContext, _ []string) error {
	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	if err := app.Sessions.SignOut(ctx); err != nil {
		return err
	}
	printSuccess(app.Out, "Signed out")
	return nil
}

func runWhoami(_ *cobra.Command, app *AppContext, _ []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	sess, _ := app.Sessions.Current()

	mode := "remote"
	if app.Client.Demo {
		mode = "demo"
	}
	fmt.Fprintln(app.Out, headingStyle.Render(sess.Actor.Name))
	fmt.Fprintf(app.Out, "Email:   %s\n", sess.Actor.Email)
	fmt.Fprintf(app.Out, "ID:      %s\n", sess.Actor.ID)
	fmt.Fprintf(app.Out, "Mode:    %s\n", mode)
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintln(app.Out, mutedStyle.Render("Session expires "+sess.ExpiresAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

func runProfile(cmd *cobra.Command, app *AppContext, _ []string) error {
	var update session.ProfileUpdate
	if cmd.Flags().Changed("name") {
		update.Name = &authName
	}
	if cmd.Flags().Changed("email") {
		update.Email = &authEmail
	}
	if update.Name == nil && update.Email == nil {
		return fmt.Errorf("nothing to update, pass --name or --email")
	}

	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	actor, err := app.Sessions.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	printSuccess(app.Out, fmt.Sprintf("Profile updated: %s <%s>", actor.Name, actor.Email))
	return nil
}
