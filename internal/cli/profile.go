package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andressep95/hr-service/pkg/client"
	"github.com/andressep95/hr-service/pkg/session"
)

func newProfileCommand(current func() *app) *cobra.Command {
	var req client.UpdateProfileRequest

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit the signed-in employee's name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()

			h := a.hooks[session.ClassEmployee]
			h.Mount(ctx)
			if !h.IsAuthenticated() {
				return errors.New("no employee session")
			}

			if p := h.Profile(); p != nil && (req.FirstName == "" || req.LastName == "") {
				first, last := splitName(p.Name)
				if req.FirstName == "" {
					req.FirstName = first
				}
				if req.LastName == "" {
					req.LastName = last
				}
			}

			updated, err := a.client.UpdateEmployeeProfile(ctx, req).Unwrap()
			if err != nil {
				return report(ctx, h, err)
			}
			if err := h.UpdateProfile(ctx, &updated); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "profile updated: %s\n", updated.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last", "", "last name")
	cmd.MarkFlagsOneRequired("first", "last")
	return cmd
}

func splitName(name string) (string, string) {
	first, last, _ := strings.Cut(name, " ")
	return first, last
}

func newPasswordCommand(current func() *app) *cobra.Command {
	var req client.ChangePasswordRequest

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the signed-in employee's password and sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()

			h := a.hooks[session.ClassEmployee]
			if err := a.client.ChangeEmployeePassword(ctx, req).Err(); err != nil {
				return report(ctx, h, err)
			}

			fmt.Fprintln(a.out, "password changed, sign in again")
			h.Logout(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.OldPassword, "old", "", "current password")
	cmd.Flags().StringVar(&req.NewPassword, "new", "", "new password")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}
