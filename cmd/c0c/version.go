package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of c0c",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			w := cmd.OutOrStdout()
			switch format {
			case "json":
				js, err := marshalJSON(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				}, useColor(os.Stdout))
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(js))
			case "", "text":
				fmt.Fprintf(w, "c0c %s (commit %s, built %s)\n", version, commit, date)
			default:
				return fmt.Errorf("unknown output format: %s", format)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format (json or text)")
	return cmd
}
