package main

import (
	goerrors "errors"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// addInputFlags registers the flags read by readInput.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Source code to use instead of a file")
	cmd.Flags().Bool("stdin", false, "Read source code from stdin")
}

// readInput returns the input selected by --code, --stdin or a path
// argument, along with a name for diagnostics.
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeSet, stdinSet, pathSupplied} {
		if set {
			count++
		}
	}
	switch {
	case count > 1:
		return nil, "", goerrors.New("multiple input sources specified")
	case count == 0:
		return nil, "", goerrors.New("no input provided")
	case stdinSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, "<stdin>", err
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		return data, args[0], err
	}
	code, _ := cmd.Flags().GetString("code")
	return []byte(code), "<code>", nil
}
