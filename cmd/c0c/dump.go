package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c0lang/c0"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the compiled module of c0 source code as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDump,
	}
	addInputFlags(cmd)
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	data, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	module, err := c0.Compile(string(data), c0Options(name, newLogger(os.Stderr))...)
	if err != nil {
		return err
	}
	js, err := marshalJSON(module, useColor(os.Stdout))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(js))
	return nil
}
