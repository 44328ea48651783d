package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/validation"
)

func (c *cli) signupCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.authenticate(cmd, email, password, true)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.authenticate(cmd, email, password, false)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func (c *cli) authenticate(cmd *cobra.Command, email, password string, signup bool) error {
	var err error
	if email == "" {
		if email, err = promptLine(cmd, "Email: "); err != nil {
			return err
		}
	}
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	if password == "" {
		if password, err = promptPassword(cmd, "Password: "); err != nil {
			return err
		}
	}
	if signup {
		if err := validation.ValidatePassword(password); err != nil {
			return err
		}
	} else if password == "" {
		return errors.New("password is required")
	}

	var s *model.Session
	if signup {
		s, err = c.api.SignUp(cmd.Context(), email, password)
	} else {
		s, err = c.api.SignIn(cmd.Context(), email, password)
	}
	if err != nil {
		return err
	}

	c.palette().good.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", s.User.Email)
	return nil
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.api.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.session.Current() == nil {
				return errSignedOut
			}
			info, err := c.api.GetSession(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := c.palette()
			p.title.Fprintln(out, info.User.Email)
			if info.Profile.Name != "" {
				fmt.Fprintf(out, "name:  %s\n", info.Profile.Name)
			}
			if info.Profile.HasPartner() {
				fmt.Fprintf(out, "ally:  %s\n", info.Profile.Partner())
			} else {
				p.dim.Fprintln(out, "ally:  none")
			}
			return nil
		},
	}
}

func (c *cli) accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your profile and credentials",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "name NAME",
		Short: "Set your display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.session.Current() == nil {
				return errSignedOut
			}
			if err := validation.ValidateName(args[0]); err != nil {
				return err
			}
			profile, err := c.api.UpdateName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name set to %s\n", profile.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "avatar PATH",
		Short: "Upload a new avatar image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.session.Current() == nil {
				return errSignedOut
			}
			profile, err := c.api.UploadAvatar(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Avatar updated: %s\n", profile.AvatarURL)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.session.Current() == nil {
				return errSignedOut
			}
			current, err := promptPassword(cmd, "Current password: ")
			if err != nil {
				return err
			}
			next, err := promptPassword(cmd, "New password: ")
			if err != nil {
				return err
			}
			if err := validation.ValidatePassword(next); err != nil {
				return err
			}
			if err := c.api.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
			return nil
		},
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and everything in it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.session.Current() == nil {
				return errSignedOut
			}
			if !yes {
				ok, err := confirm(cmd, "Delete your account permanently?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			password, err := promptPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			if err := c.api.DeleteAccount(cmd.Context(), password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.AddCommand(deleteCmd)

	return cmd
}
