package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ZacxDev/nolan-sites/forms"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List stored form submissions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		form, _ := cmd.Flags().GetString("form")
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := forms.Open(cfg.FormsDB)
		if err != nil {
			return errors.Wrap(err, "open form store")
		}
		defer store.Close()

		subs, err := store.List(cmd.Context(), form, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, sub := range subs {
			site := sub.Site
			if site == "" {
				site = "-"
			}
			fmt.Fprintf(out, "%s\t%s\t%s <%s>\t%s\n",
				sub.CreatedAt.UTC().Format(time.RFC3339), site, sub.Name, sub.Email,
				strings.Join(strings.Fields(sub.Message), " "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submissionsCmd)
	submissionsCmd.Flags().String("form", forms.ContactForm, "Form name")
	submissionsCmd.Flags().Int("limit", 20, "Maximum number of submissions")
}
