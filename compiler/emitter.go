package compiler

import "github.com/c0lang/c0/bytecode"

// buffer is an append-only run of instructions with their source locations.
type buffer struct {
	instructions []bytecode.Instruction
	locations    []bytecode.SourceLocation
}

func (b *buffer) len() int {
	return len(b.instructions)
}

// emitter collects the instructions of one function. Control flow bodies
// are emitted into nested buffers first so that branches can be appended
// with their final offsets; nothing is patched after it is appended.
type emitter struct {
	buffers []*buffer
}

func newEmitter() *emitter {
	return &emitter{buffers: []*buffer{{}}}
}

func (e *emitter) top() *buffer {
	return e.buffers[len(e.buffers)-1]
}

// emit appends one instruction to the innermost buffer and returns its
// index within that buffer.
func (e *emitter) emit(inst bytecode.Instruction, loc bytecode.SourceLocation) int {
	b := e.top()
	b.instructions = append(b.instructions, inst)
	b.locations = append(b.locations, loc)
	return len(b.instructions) - 1
}

// begin opens a nested buffer.
func (e *emitter) begin() {
	e.buffers = append(e.buffers, &buffer{})
}

// end closes the innermost buffer and returns it.
func (e *emitter) end() *buffer {
	b := e.top()
	e.buffers = e.buffers[:len(e.buffers)-1]
	return b
}

// splice appends the contents of a closed buffer to the innermost one.
func (e *emitter) splice(b *buffer) {
	top := e.top()
	top.instructions = append(top.instructions, b.instructions...)
	top.locations = append(top.locations, b.locations...)
}

// len returns the number of instructions in the innermost buffer.
func (e *emitter) len() int {
	return e.top().len()
}

// finish returns the outermost buffer. All nested buffers must be closed.
func (e *emitter) finish() *buffer {
	if len(e.buffers) != 1 {
		panic("compiler: unbalanced emitter buffers")
	}
	return e.buffers[0]
}
