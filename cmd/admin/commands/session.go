package commands

import (
	"fmt"

	"citizenvoice/backend/internal/store"

	"github.com/spf13/cobra"
)

// SessionCommands returns the session commands.
func SessionCommands(s *store.Store) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Show, start or end the stored session",
	}
	sessionCmd.AddCommand(sessionShowCmd(s), sessionLoginCmd(s), sessionLogoutCmd(s))
	return sessionCmd
}

func sessionShowCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := s.User()
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nobody is signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) id=%s phone=%s location=%s\n", u.Name, u.Role, u.ID, u.PhoneNumber, u.Location)
			fmt.Fprintf(cmd.OutOrStdout(), "Unread notifications: %d\n", s.UnreadCount())
			return nil
		},
	}
}

func sessionLoginCmd(s *store.Store) *cobra.Command {
	var identifier, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a phone number or email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, _, err := s.Login(cmd.Context(), identifier, password)
			if err != nil {
				return err
			}
			s.FetchComplaints(cmd.Context())
			s.FetchNotifications(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", u.Name, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&identifier, "phone", "", "phone number or email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func sessionLogoutCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

// OnboardingCommands returns the onboarding flag commands.
func OnboardingCommands(s *store.Store) *cobra.Command {
	onboardingCmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Inspect or reset the onboarding flag",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seen, err := s.HasSeenOnboarding(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Onboarding seen: %t\n", seen)
			return nil
		},
	}
	onboardingCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Show onboarding again on next launch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.ResetOnboarding(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Onboarding reset")
			return nil
		},
	})
	return onboardingCmd
}

// SeedCommand writes the demo complaints to storage.
func SeedCommand(s *store.Store) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the demo complaints",
		Long:  `Writes the demo complaints to storage. Existing data is kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := s.Seed(cmd.Context(), force)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Storage already holds complaints, use --force to overwrite")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d complaints\n", n)
			s.FetchComplaints(cmd.Context())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite stored complaints")
	return cmd
}
