package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c0lang/c0"
	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/dis"
)

func newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble c0 source code or a compiled module",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDis,
	}
	addInputFlags(cmd)
	cmd.Flags().String("func", "", "Function to disassemble")
	return cmd
}

func runDis(cmd *cobra.Command, args []string) error {
	data, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	funcName, _ := cmd.Flags().GetString("func")
	w := cmd.OutOrStdout()

	if isModule(data) {
		decoded, err := bytecode.Unmarshal(data)
		if err != nil {
			return err
		}
		if funcName == "" {
			return dis.PrintDecoded(decoded, w)
		}
		for i, fn := range decoded.Functions {
			if decoded.FunctionName(i) == funcName {
				instructions, err := dis.Disassemble(fn.Instructions, dis.DecodedNames(decoded))
				if err != nil {
					return err
				}
				return dis.Print(instructions, w)
			}
		}
		return fmt.Errorf("function %q not found", funcName)
	}

	module, err := c0.Compile(string(data), c0Options(name, newLogger(os.Stderr))...)
	if err != nil {
		return err
	}
	if funcName == "" {
		return dis.PrintModule(module, w)
	}
	for _, fn := range module.Functions() {
		if fn.Name() == funcName {
			instructions, err := dis.Disassemble(fn.Instructions(), dis.ModuleNames(module))
			if err != nil {
				return err
			}
			return dis.Print(instructions, w)
		}
	}
	return fmt.Errorf("function %q not found", funcName)
}

// isModule reports whether data starts with the module magic number.
func isModule(data []byte) bool {
	return len(data) >= 4 && binary.BigEndian.Uint32(data) == bytecode.Magic
}
