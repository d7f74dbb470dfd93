package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"course-portal/internal/cli"
	"course-portal/internal/config"
	"course-portal/internal/portal"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a student",
	Long: `Sign in against the registration API. The session is kept in the
client storage (client.storage) until "course-portal logout".

The password is prompted for when --password is not given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		if username == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Username: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read username: %w", err)
			}
			username = strings.TrimSpace(line)
		}
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(raw)
		}

		return withPortal(cmd, func(app *portal.App, out *cli.Renderer) error {
			res := app.Login(cmd.Context(), username, password)
			if !res.Success {
				if app.Session.IsAuthenticated() {
					// signed in, but the catalog could not be loaded
					out.Message(app.Courses.Message())
				}
				return res.Err()
			}
			return out.Profile(app.Session.User(), app.Courses)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPortal(cmd, func(app *portal.App, _ *cli.Renderer) error {
			if err := app.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in student",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(app *portal.App, out *cli.Renderer) error {
			return out.Profile(app.Session.User(), app.Courses)
		})
	},
}

var coursesCmd = &cobra.Command{
	Use:     "courses",
	Aliases: []string{"catalog"},
	Short:   "List the current term's courses with registration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(app *portal.App, out *cli.Renderer) error {
			return out.Courses(app.Courses)
		})
	},
}

var registrationsCmd = &cobra.Command{
	Use:   "registrations",
	Short: "List your registrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(app *portal.App, out *cli.Renderer) error {
			return out.Registrations(app.Courses.Registrations())
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <course-id>",
	Short: "Register for a course in the current term",
	Long: `Register for a course in the current term. Courses whose prerequisites
you have not completed are refused locally; --force submits anyway and lets
the server decide.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, err := strconv.Atoi(args[0])
		if err != nil || courseID <= 0 {
			return fmt.Errorf("invalid course id %q", args[0])
		}
		force, _ := cmd.Flags().GetBool("force")

		return withSession(cmd, func(app *portal.App, out *cli.Renderer) error {
			if !force {
				if err := guardRegistration(app.Courses, courseID); err != nil {
					return err
				}
			}
			res := app.Register(cmd.Context(), courseID)
			out.Message(app.Courses.Message())
			return res.Err()
		})
	},
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or change the display theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPortal(cmd, func(app *portal.App, _ *cli.Renderer) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				if args[0] == "toggle" {
					if _, err := app.Theme.Toggle(ctx); err != nil {
						return err
					}
				} else {
					mode, err := portal.ParseThemeMode(args[0])
					if err != nil {
						return err
					}
					if err := app.Theme.Set(ctx, mode); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", app.Theme.Mode())
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "student username")
	loginCmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")
	registerCmd.Flags().Bool("force", false, "submit even when prerequisites look unmet")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, coursesCmd, registrationsCmd, registerCmd, themeCmd)
}

// guardRegistration refuses courses the loaded catalog shows as locked or
// already taken.
func guardRegistration(store *portal.CourseStore, courseID int) error {
	for _, c := range store.Courses() {
		if c.ID != courseID {
			continue
		}
		switch store.Eligibility(c) {
		case portal.Registered:
			return fmt.Errorf("already registered for %s", c.Name)
		case portal.Locked:
			missing := store.MissingPrereqs(c)
			names := make([]string, 0, len(missing))
			for _, id := range missing {
				names = append(names, store.GetCourseName(id))
			}
			return fmt.Errorf("cannot register for %s, missing prerequisites: %s (use --force to submit anyway)",
				c.Name, strings.Join(names, ", "))
		}
		return nil
	}
	return nil
}

func withPortal(cmd *cobra.Command, fn func(app *portal.App, out *cli.Renderer) error) error {
	cfg := config.Get()
	app, err := portal.NewApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	out := cli.NewRenderer(cmd.OutOrStdout(), cfg.Client.Output, app.Theme.Mode())
	return fn(app, out)
}

// withSession requires a stored session and loads the catalog first.
func withSession(cmd *cobra.Command, fn func(app *portal.App, out *cli.Renderer) error) error {
	return withPortal(cmd, func(app *portal.App, out *cli.Renderer) error {
		if !app.Session.IsAuthenticated() {
			return fmt.Errorf("not logged in, run \"course-portal login\" first")
		}
		if res := app.LoadData(cmd.Context()); !res.Success {
			out.Message(app.Courses.Message())
			return res.Err()
		}
		return fn(app, out)
	})
}
