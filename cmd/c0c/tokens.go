package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c0lang/c0"
	"github.com/c0lang/c0/internal/table"
)

var outputFormatsCompletion = []string{"json", "text"}

type tokenJSON struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of c0 source code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTokens,
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("output", "o", "text", "Output format (json or text)")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	data, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	tokens, err := c0.Tokenize(string(data), c0.WithFilename(name))
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	switch strings.ToLower(format) {
	case "json":
		out := make([]tokenJSON, 0, len(tokens))
		for _, tok := range tokens {
			out = append(out, tokenJSON{
				Type:    string(tok.Type),
				Literal: tok.Literal,
				Line:    tok.StartPosition.LineNumber(),
				Column:  tok.StartPosition.ColumnNumber(),
			})
		}
		js, err := marshalJSON(out, useColor(os.Stdout))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(js))
		return nil
	case "text":
		t := table.NewTable(w)
		t.WithHeader([]string{"POSITION", "TYPE", "LITERAL"})
		for _, tok := range tokens {
			pos := fmt.Sprintf("%d:%d", tok.StartPosition.LineNumber(), tok.StartPosition.ColumnNumber())
			t.Append([]string{pos, string(tok.Type), tok.Literal})
		}
		return t.Render()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
