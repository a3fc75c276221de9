// Package commands holds the admin CLI subcommands.
package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"citizenvoice/backend/internal/models"
	"citizenvoice/backend/internal/search"
	"citizenvoice/backend/internal/store"

	"github.com/spf13/cobra"
)

// ComplaintCommands returns the complaint management commands.
func ComplaintCommands(s *store.Store) *cobra.Command {
	complaintsCmd := &cobra.Command{
		Use:   "complaints",
		Short: "Complaint management commands",
		Long: `Complaint management commands.

Available commands:
  list     - List complaints matching filters
  grouped  - Leader view grouped by age
  respond  - Answer a complaint as the signed-in leader
  delete   - Delete a complaint and its images`,
	}

	complaintsCmd.AddCommand(listCmd(s))
	complaintsCmd.AddCommand(groupedCmd(s))
	complaintsCmd.AddCommand(respondCmd(s))
	complaintsCmd.AddCommand(deleteCmd(s))

	return complaintsCmd
}

func addFilterFlags(cmd *cobra.Command, f *search.Filter) {
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "text in title, description or location")
	cmd.Flags().StringSliceVar(&f.CategoryIDs, "category", nil, "category ids (1-5), repeatable")
	cmd.Flags().StringVar(&f.Date, "date", "", "Today, Yesterday, Tomorrow, This week or a day")
	cmd.Flags().StringVar(&f.Location, "location", "", "location substring")
	cmd.Flags().StringVar(&f.Status, "status", "", "status or All")
}

func listCmd(s *store.Store) *cobra.Command {
	var f search.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List complaints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := search.Apply(s.Complaints(), f, time.Now())
			printComplaints(cmd.OutOrStdout(), list)
			return nil
		},
	}
	addFilterFlags(cmd, &f)
	return cmd
}

func groupedCmd(s *store.Store) *cobra.Command {
	var (
		f     search.Filter
		order string
	)
	cmd := &cobra.Command{
		Use:   "grouped",
		Short: "List complaints grouped into recent, older and oldest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := search.LeaderView(s.Complaints(), f, search.ParseOrder(order), time.Now())
			out := cmd.OutOrStdout()
			for _, section := range []struct {
				name string
				list []models.Complaint
			}{{"Recent", g.Recent}, {"Older", g.Older}, {"Oldest", g.Oldest}} {
				fmt.Fprintf(out, "%s (%d)\n", section.name, len(section.list))
				printComplaints(out, section.list)
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	addFilterFlags(cmd, &f)
	cmd.Flags().StringVar(&order, "order", "desc", "desc or asc by date")
	return cmd
}

func respondCmd(s *store.Store) *cobra.Command {
	var text, status string
	cmd := &cobra.Command{
		Use:   "respond <id>",
		Short: "Respond to a complaint",
		Long:  `Appends a response from the signed-in user. Sign in as a leader first with "session login".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid complaint id %q", args[0])
			}
			u := s.User()
			if u == nil || !u.IsLeader() {
				return fmt.Errorf("a leader must be signed in to respond")
			}

			var st models.Status
			if status != "" {
				parsed, ok := models.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				st = parsed
			}

			c, err := s.Respond(cmd.Context(), id, text, st)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Complaint #%d is now %s (%d responses)\n", c.ID, c.Status, len(c.Responses))
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "response text")
	cmd.Flags().StringVar(&status, "status", "", "new status: pending, in-progress or resolved")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func deleteCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid complaint id %q", args[0])
			}
			deleted, err := s.DeleteComplaint(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Complaint #%d not found, nothing deleted\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted complaint #%d\n", id)
			return nil
		},
	}
}

func printComplaints(w io.Writer, list []models.Complaint) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No complaints found")
		return
	}
	fmt.Fprintf(w, "%-5s %-12s %-12s %-14s %-40s %s\n", "ID", "Date", "Status", "Category", "Title", "Location")
	for _, c := range list {
		fmt.Fprintf(w, "%-5d %-12s %-12s %-14s %-40s %s\n", c.ID, c.Date, c.Status, c.Category, truncate(c.Title, 40), c.Location)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
