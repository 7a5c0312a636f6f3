package bytecode

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/op"
)

const (
	// Magic identifies a compiled c0 module.
	Magic uint32 = 0x72303b3e
	// Version is the module format version written by Marshal.
	Version uint32 = 1

	// MaxStringLength is the longest string payload the 1-byte length
	// field can describe.
	MaxStringLength = 255

	variableLength = 8
)

// Marshal serializes the module into the binary wire format.
func Marshal(m *Module) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the module in the binary wire format. The module is
// validated before anything is written, so a failed call writes nothing.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	globals := m.WireGlobals()
	for _, g := range globals {
		if g.Kind == GlobalString && len(g.Value) > MaxStringLength {
			return 0, errors.OutputErrorf(errors.StringTooLong,
				"string of %d bytes exceeds the %d byte limit", len(g.Value), MaxStringLength)
		}
	}
	var buf bytes.Buffer
	e := encoder{buf: &buf}
	e.u32(Magic)
	e.u32(Version)
	e.u32(uint32(len(globals)))
	for _, g := range globals {
		e.u8(g.KindByte())
		if g.Kind == GlobalString {
			e.u8(uint8(len(g.Value)))
			buf.WriteString(g.Value)
			continue
		}
		e.u32(variableLength)
		e.u64(0)
	}
	fns := m.Functions()
	e.u32(uint32(len(fns)))
	for i, fn := range fns {
		e.u32(uint32(m.NameIndex(i)))
		e.u32(uint32(fn.ReturnSlots()))
		e.u32(uint32(fn.ParamSlots()))
		e.u32(uint32(fn.LocalSlots()))
		e.u32(uint32(fn.InstructionCount()))
		for _, inst := range fn.instructions {
			e.instruction(inst)
		}
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

type encoder struct {
	buf     *bytes.Buffer
	scratch [8]byte
}

func (e *encoder) u8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *encoder) u32(v uint32) {
	binary.BigEndian.PutUint32(e.scratch[:4], v)
	e.buf.Write(e.scratch[:4])
}

func (e *encoder) u64(v uint64) {
	binary.BigEndian.PutUint64(e.scratch[:], v)
	e.buf.Write(e.scratch[:])
}

func (e *encoder) instruction(inst Instruction) {
	e.u8(uint8(inst.Op))
	switch op.GetInfo(inst.Op).OperandSize {
	case op.WideOperand:
		e.u64(inst.Operand)
	case op.NarrowOperand:
		e.u32(uint32(inst.Operand))
	}
}

// DecodedGlobal is a global as read back from the wire.
type DecodedGlobal struct {
	Kind byte
	// Data is the string payload, or the 8 placeholder bytes of a variable.
	Data []byte
	// IsString is true if the entry used the 1-byte length string layout.
	IsString bool
}

// DecodedFunction is a function record as read back from the wire.
type DecodedFunction struct {
	NameIndex    uint32
	ReturnSlots  uint32
	ParamSlots   uint32
	LocalSlots   uint32
	Instructions []Instruction
}

// DecodedModule is the result of Unmarshal.
type DecodedModule struct {
	Version   uint32
	Globals   []DecodedGlobal
	Functions []DecodedFunction
}

// FunctionName returns the name of the i-th function, resolved through the
// global table.
func (d *DecodedModule) FunctionName(i int) string {
	idx := int(d.Functions[i].NameIndex)
	if idx >= len(d.Globals) {
		return ""
	}
	return string(d.Globals[idx].Data)
}

// Unmarshal decodes a module written by Marshal.
//
// The wire format does not record which kind-1 globals are strings and
// which are const variables. A kind-1 entry is read as a variable when its
// next four bytes are the length 8 and are followed by eight zero bytes,
// and as a string otherwise.
func Unmarshal(data []byte) (*DecodedModule, error) {
	d := &decoder{data: data}
	magic, err := d.u32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, errors.OutputErrorf(errors.InvalidModule, "bad magic 0x%08x", magic)
	}
	m := &DecodedModule{}
	if m.Version, err = d.u32(); err != nil {
		return nil, err
	}
	if m.Version != Version {
		return nil, errors.OutputErrorf(errors.InvalidModule, "unsupported version %d", m.Version)
	}
	globalCount, err := d.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < globalCount; i++ {
		g, err := d.global()
		if err != nil {
			return nil, err
		}
		m.Globals = append(m.Globals, g)
	}
	fnCount, err := d.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < fnCount; i++ {
		fn, err := d.function()
		if err != nil {
			return nil, err
		}
		m.Functions = append(m.Functions, fn)
	}
	if d.pos != len(d.data) {
		return nil, errors.OutputErrorf(errors.InvalidModule,
			"%d trailing bytes after module", len(d.data)-d.pos)
	}
	return m, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) take(n int) ([]byte, error) {
	if d.pos+n > len(d.data) {
		return nil, errors.OutputErrorf(errors.InvalidModule,
			"unexpected end of module at offset %d", d.pos)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) u8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// looksLikeVariable reports whether the bytes at the cursor hold the
// length-8 zero placeholder of a variable global.
func (d *decoder) looksLikeVariable() bool {
	if d.pos+4+variableLength > len(d.data) {
		return false
	}
	if binary.BigEndian.Uint32(d.data[d.pos:]) != variableLength {
		return false
	}
	for _, b := range d.data[d.pos+4 : d.pos+4+variableLength] {
		if b != 0 {
			return false
		}
	}
	return true
}

func (d *decoder) global() (DecodedGlobal, error) {
	kind, err := d.u8()
	if err != nil {
		return DecodedGlobal{}, err
	}
	if kind > 1 {
		return DecodedGlobal{}, errors.OutputErrorf(errors.InvalidModule,
			"invalid global kind %d at offset %d", kind, d.pos-1)
	}
	if kind == 0 || d.looksLikeVariable() {
		length, err := d.u32()
		if err != nil {
			return DecodedGlobal{}, err
		}
		if length != variableLength {
			return DecodedGlobal{}, errors.OutputErrorf(errors.InvalidModule,
				"variable global has length %d", length)
		}
		data, err := d.take(variableLength)
		if err != nil {
			return DecodedGlobal{}, err
		}
		return DecodedGlobal{Kind: kind, Data: data}, nil
	}
	length, err := d.u8()
	if err != nil {
		return DecodedGlobal{}, err
	}
	data, err := d.take(int(length))
	if err != nil {
		return DecodedGlobal{}, err
	}
	return DecodedGlobal{Kind: kind, Data: data, IsString: true}, nil
}

func (d *decoder) function() (DecodedFunction, error) {
	var fields [5]uint32
	for i := range fields {
		v, err := d.u32()
		if err != nil {
			return DecodedFunction{}, err
		}
		fields[i] = v
	}
	fn := DecodedFunction{
		NameIndex:   fields[0],
		ReturnSlots: fields[1],
		ParamSlots:  fields[2],
		LocalSlots:  fields[3],
	}
	for i := uint32(0); i < fields[4]; i++ {
		code, err := d.u8()
		if err != nil {
			return DecodedFunction{}, err
		}
		if !op.IsValid(op.Code(code)) {
			return DecodedFunction{}, errors.OutputErrorf(errors.InvalidModule,
				"unknown opcode 0x%02x at offset %d", code, d.pos-1)
		}
		inst := Instruction{Op: op.Code(code)}
		switch op.GetInfo(inst.Op).OperandSize {
		case op.WideOperand:
			inst.Operand, err = d.u64()
		case op.NarrowOperand:
			var v uint32
			v, err = d.u32()
			inst.Operand = uint64(v)
		}
		if err != nil {
			return DecodedFunction{}, err
		}
		fn.Instructions = append(fn.Instructions, inst)
	}
	return fn, nil
}

type jsonGlobal struct {
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Const bool   `json:"const,omitempty"`
	Value string `json:"value,omitempty"`
}

type jsonFunction struct {
	Name         string   `json:"name"`
	ReturnSlots  int      `json:"return_slots"`
	ParamSlots   int      `json:"param_slots"`
	LocalSlots   int      `json:"local_slots"`
	Instructions []string `json:"instructions"`
}

type jsonModule struct {
	Filename  string         `json:"filename,omitempty"`
	Globals   []jsonGlobal   `json:"globals"`
	Functions []jsonFunction `json:"functions"`
}

// MarshalJSON returns a readable JSON view of the module. It is meant for
// inspection and cannot be loaded back.
func (m *Module) MarshalJSON() ([]byte, error) {
	out := jsonModule{
		Filename:  m.filename,
		Globals:   []jsonGlobal{},
		Functions: []jsonFunction{},
	}
	for _, g := range m.globals {
		out.Globals = append(out.Globals, jsonGlobal{
			Kind:  g.Kind.String(),
			Name:  g.Name,
			Const: g.Const,
			Value: g.Value,
		})
	}
	for _, fn := range m.Functions() {
		insts := make([]string, 0, fn.InstructionCount())
		for _, inst := range fn.instructions {
			insts = append(insts, inst.String())
		}
		out.Functions = append(out.Functions, jsonFunction{
			Name:         fn.Name(),
			ReturnSlots:  fn.ReturnSlots(),
			ParamSlots:   fn.ParamSlots(),
			LocalSlots:   fn.LocalSlots(),
			Instructions: insts,
		})
	}
	return json.Marshal(out)
}
