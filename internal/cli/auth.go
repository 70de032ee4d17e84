package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andressep95/hr-service/pkg/client"
	"github.com/andressep95/hr-service/pkg/session"
)

func newLoginCommand(current func() *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the class selected with --as",
		Example: `  hrctl login --as company --email hr@acme.test
  HRCTL_PASSWORD=secret hrctl login --email jane@acme.test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()

			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				password = os.Getenv(envPassword)
			}
			if password == "" {
				fmt.Fprint(a.errOut, "password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			res := a.client.Login(ctx, a.class, client.Credentials{Email: email, Password: password})
			if err := res.Err(); err != nil {
				return fmt.Errorf("login failed: %s", res.Message)
			}

			profile := res.Data.Profile
			if err := a.hook().Login(ctx, res.Data.Token, &profile); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "signed in as %s <%s> (%s)\n", profile.Name, profile.Email, a.class)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password ($"+envPassword+")")
	return cmd
}

func newLogoutCommand(current func() *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session of the class selected with --as",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()

			classes := []session.Class{a.class}
			if all {
				classes = session.Classes
			}

			for _, c := range classes {
				if !a.registry.For(c).HasToken(ctx) {
					continue
				}
				a.hooks[c].Logout(ctx)
				fmt.Fprintf(a.out, "signed out (%s)\n", c)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "end the sessions of every class")
	return cmd
}

func newWhoamiCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show every signed-in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()

			signedIn := false
			for _, c := range session.Classes {
				if !a.registry.For(c).HasToken(ctx) {
					continue
				}

				h := a.hooks[c]
				h.Mount(ctx)
				if !h.IsAuthenticated() {
					continue
				}

				signedIn = true
				if p := h.Profile(); p != nil {
					fmt.Fprintf(a.out, "%-8s %s <%s>%s\n", c, p.Name, p.Email, describe(p))
				} else {
					fmt.Fprintf(a.out, "%-8s (profile unavailable)\n", c)
				}
			}

			if !signedIn {
				fmt.Fprintln(a.out, "not signed in")
			}
			return nil
		},
	}
}

func describe(p *session.Profile) string {
	var parts []string
	if p.Designation != "" {
		parts = append(parts, p.Designation)
	}
	if p.Department != "" {
		parts = append(parts, p.Department)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, ", ")
}
