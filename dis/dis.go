// Package dis renders compiled c0 modules as human-readable listings.
package dis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/c0lang/c0/bytecode"
	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/internal/table"
	"github.com/c0lang/c0/op"
)

// Instruction is one disassembled instruction. Offset is the instruction's
// index within its function, which is also the unit branch offsets count in.
type Instruction struct {
	Offset  int
	Name    string
	Operand string
	Info    string
}

// Names resolves global and function indexes for annotations. A nil
// resolver leaves the corresponding operands unannotated.
type Names struct {
	Global   func(index int) (string, bool)
	Function func(index int) (string, bool)
}

// ModuleNames resolves names against a compiled module.
func ModuleNames(m *bytecode.Module) Names {
	fns := m.Functions()
	return Names{
		Global: func(index int) (string, bool) {
			if index < 0 || index >= m.GlobalCount() {
				return "", false
			}
			g := m.GlobalAt(index)
			if g.Kind == bytecode.GlobalString {
				return strconv.Quote(g.Value), true
			}
			return g.Name, true
		},
		Function: func(index int) (string, bool) {
			if index < 0 || index >= len(fns) {
				return "", false
			}
			return fns[index].Name(), true
		},
	}
}

// DecodedNames resolves names against a module read back from bytes.
// Variable names are not part of the wire format, so only string globals
// are annotated.
func DecodedNames(d *bytecode.DecodedModule) Names {
	return Names{
		Global: func(index int) (string, bool) {
			if index < 0 || index >= len(d.Globals) || !d.Globals[index].IsString {
				return "", false
			}
			return strconv.Quote(string(d.Globals[index].Data)), true
		},
		Function: func(index int) (string, bool) {
			if index < 0 || index >= len(d.Functions) {
				return "", false
			}
			return d.FunctionName(index), true
		},
	}
}

// Disassemble converts instructions into their printable form.
func Disassemble(code []bytecode.Instruction, names Names) ([]Instruction, error) {
	out := make([]Instruction, 0, len(code))
	for offset, inst := range code {
		if !op.IsValid(inst.Op) {
			return nil, errors.OutputErrorf(errors.InvalidModule,
				"unknown opcode 0x%02x at offset %d", uint8(inst.Op), offset)
		}
		info := op.GetInfo(inst.Op)
		d := Instruction{Offset: offset, Name: info.Name}
		if info.HasOperand() {
			if info.Signed {
				d.Operand = strconv.Itoa(int(inst.Offset()))
			} else {
				d.Operand = strconv.FormatUint(inst.Operand, 10)
			}
		}
		switch inst.Op {
		case op.Br, op.BrFalse, op.BrTrue:
			d.Info = fmt.Sprintf("-> %d", offset+1+int(inst.Offset()))
		case op.LoadGlobal, op.StoreGlobal:
			if names.Global != nil {
				d.Info, _ = names.Global(int(inst.Operand))
			}
		case op.Call:
			if names.Function != nil {
				d.Info, _ = names.Function(int(inst.Operand))
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// Print writes the instructions as a table.
func Print(instructions []Instruction, w io.Writer) error {
	t := table.NewTable(w)
	t.WithHeader([]string{"OFFSET", "OPCODE", "OPERAND", "INFO"})
	t.WithColumnAlignment([]table.Alignment{
		table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft,
	})
	t.WithHeaderAlignment([]table.Alignment{
		table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter,
	})
	for _, inst := range instructions {
		t.Append([]string{strconv.Itoa(inst.Offset), inst.Name, inst.Operand, inst.Info})
	}
	return t.Render()
}

// PrintModule writes the global table followed by a listing of every
// function, entry first.
func PrintModule(m *bytecode.Module, w io.Writer) error {
	names := ModuleNames(m)
	if m.GlobalCount() > 0 {
		fmt.Fprintln(w, "globals:")
		t := table.NewTable(w)
		t.WithHeader([]string{"INDEX", "KIND", "VALUE"})
		t.WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft})
		for i := 0; i < m.GlobalCount(); i++ {
			g := m.GlobalAt(i)
			kind := g.Kind.String()
			if g.Const {
				kind = "const"
			}
			value, _ := names.Global(i)
			t.Append([]string{strconv.Itoa(i), kind, value})
		}
		if err := t.Render(); err != nil {
			return err
		}
	}
	for i, fn := range m.Functions() {
		fmt.Fprintf(w, "\nfn %s (#%d) [ret %d, params %d, locals %d]:\n",
			fn.Name(), i, fn.ReturnSlots(), fn.ParamSlots(), fn.LocalSlots())
		instructions, err := Disassemble(fn.Instructions(), names)
		if err != nil {
			return err
		}
		if err := Print(instructions, w); err != nil {
			return err
		}
	}
	return nil
}

// PrintDecoded writes a listing of a module read back from bytes.
func PrintDecoded(d *bytecode.DecodedModule, w io.Writer) error {
	names := DecodedNames(d)
	fmt.Fprintf(w, "version %d, %d globals, %d functions\n",
		d.Version, len(d.Globals), len(d.Functions))
	for i, fn := range d.Functions {
		fmt.Fprintf(w, "\nfn %s (#%d) [ret %d, params %d, locals %d]:\n",
			d.FunctionName(i), i, fn.ReturnSlots, fn.ParamSlots, fn.LocalSlots)
		instructions, err := Disassemble(fn.Instructions, names)
		if err != nil {
			return err
		}
		if err := Print(instructions, w); err != nil {
			return err
		}
	}
	return nil
}
