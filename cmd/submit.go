package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ZacxDev/nolan-sites/forms"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Post a contact form submission to a form endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint, _ := cmd.Flags().GetString("endpoint")
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		message, _ := cmd.Flags().GetString("message")

		s := forms.NewSubmitter(endpoint, http.DefaultClient)
		s.OnTransition(func(from, to forms.State) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", from, to)
		})

		_, err := s.Submit(cmd.Context(), forms.ContactValues(name, email, message))
		return err
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().String("endpoint", "http://localhost:9010/__forms.html", "Form endpoint URL")
	submitCmd.Flags().String("name", "", "Sender name")
	submitCmd.Flags().String("email", "", "Sender email")
	submitCmd.Flags().String("message", "", "Message body")
	_ = submitCmd.MarkFlagRequired("name")
	_ = submitCmd.MarkFlagRequired("email")
	_ = submitCmd.MarkFlagRequired("message")
}
