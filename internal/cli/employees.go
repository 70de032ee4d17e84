package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/pkg/auth"
	"github.com/andressep95/hr-service/pkg/client"
	"github.com/andressep95/hr-service/pkg/guard"
	"github.com/andressep95/hr-service/pkg/rbac"
	"github.com/andressep95/hr-service/pkg/session"
)

var (
	// errDenied is returned after an access-denied view was printed.
	errDenied = errors.New("access denied")
	// errNoPermissions is returned when no permission list could be loaded,
	// which happens when nobody is signed in.
	errNoPermissions = errors.New("permissions not loaded, sign in first")
)

// staffHook is the hook whose token the staff endpoints use.
func (a *app) staffHook(ctx context.Context) *auth.Hook {
	if a.registry.For(session.ClassCompany).HasToken(ctx) {
		return a.hooks[session.ClassCompany]
	}
	return a.hooks[session.ClassEmployee]
}

// guarded renders content behind feature/action and converts the failure
// branches into errors.
func (a *app) guarded(ctx context.Context, feature string, action rbac.Action, content guard.RenderFunc) error {
	a.loadPermissions(ctx)

	var contentErr error
	view := guard.New(feature, action, a.evaluator, terminal{w: a.errOut}).Render(ctx, guard.RenderFunc(func(w io.Writer) error {
		contentErr = content(w)
		return nil
	}))

	switch view.State {
	case guard.StateContent:
		if err := view.Render(a.out); err != nil {
			return err
		}
		return contentErr
	case guard.StateLoading:
		if err := view.Render(a.errOut); err != nil {
			return err
		}
		return errNoPermissions
	default:
		if err := view.Render(a.errOut); err != nil {
			return err
		}
		return errDenied
	}
}

// report hands a failed result to the session policy of h.
func report(ctx context.Context, h *auth.Hook, err error) error {
	if h.HandleError(ctx, err) {
		return errors.New("session ended")
	}
	return err
}

func newCanCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "can <feature> <action>",
		Short: "Check a capability of the signed-in identity",
		Example: `  hrctl can employees create
  hrctl can salary_view view`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx := cmd.Context()

			action, err := rbac.ParseAction(args[1])
			if err != nil {
				return err
			}

			a.loadPermissions(ctx)
			if a.evaluator.HasPermission(ctx, args[0], action) {
				fmt.Fprintln(a.out, "allowed")
			} else {
				fmt.Fprintln(a.out, "denied")
			}
			return nil
		},
	}
}

func newEmployeesCommand(current func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"emp"},
		Short:   "Manage company staff",
	}

	cmd.AddCommand(
		newEmployeesListCommand(current),
		newEmployeesCreateCommand(current),
		newEmployeesDeleteCommand(current),
	)
	return cmd
}

func newEmployeesListCommand(current func() *app) *cobra.Command {
	var q client.EmployeeQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()

			return a.guarded(ctx, domain.FeatureEmployees, rbac.ActionView, func(w io.Writer) error {
				page, err := a.client.ListEmployees(ctx, q).Unwrap()
				if err != nil {
					return report(ctx, a.staffHook(ctx), err)
				}
				return printEmployees(w, page)
			})
		},
	}

	cmd.Flags().StringVar(&q.Search, "search", "", "match name or email")
	cmd.Flags().StringVar(&q.Department, "department", "", "filter by department")
	cmd.Flags().IntVar(&q.Limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "page offset")
	return cmd
}

func printEmployees(w io.Writer, page client.EmployeePage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDEPARTMENT\tDESIGNATION\tSTATUS")
	for _, e := range page.Employees {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
			e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Designation, e.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d\n", len(page.Employees), page.Total)
	return err
}

func newEmployeesCreateCommand(current func() *app) *cobra.Command {
	var req client.CreateEmployeeRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an employee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()

			return a.guarded(ctx, domain.FeatureEmployees, rbac.ActionCreate, func(w io.Writer) error {
				e, err := a.client.CreateEmployee(ctx, req).Unwrap()
				if err != nil {
					return report(ctx, a.staffHook(ctx), err)
				}
				_, err = fmt.Fprintf(w, "created %s (%s)\n", e.ID, e.Email)
				return err
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "login email")
	f.StringVar(&req.Password, "password", "", "initial password")
	f.StringVar(&req.FirstName, "first", "", "first name")
	f.StringVar(&req.LastName, "last", "", "last name")
	f.StringVar(&req.Department, "department", "", "department")
	f.StringVar(&req.Designation, "designation", "", "job title")
	f.StringVar(&req.Salary, "salary", "", "salary as a decimal string")
	for _, name := range []string{"email", "password", "first", "last"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newEmployeesDeleteCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx := cmd.Context()

			return a.guarded(ctx, domain.FeatureEmployees, rbac.ActionDelete, func(w io.Writer) error {
				if err := a.client.DeleteEmployee(ctx, args[0]).Err(); err != nil {
					return report(ctx, a.staffHook(ctx), err)
				}
				_, err := fmt.Fprintf(w, "deleted %s\n", args[0])
				return err
			})
		},
	}
}

func newRolesCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "Show the roles of the signed-in employee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()

			h := a.hooks[session.ClassEmployee]
			h.Mount(ctx)
			p := h.Profile()
			if p == nil {
				return errors.New("no employee session")
			}

			roles, err := a.client.GetEmployeeRoles(ctx, p.ID).Unwrap()
			if err != nil {
				return report(ctx, h, err)
			}
			if len(roles) == 0 {
				fmt.Fprintln(a.out, "no roles assigned")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, r := range roles {
				fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.Description)
			}
			return tw.Flush()
		},
	}
}
