package bytecode

// EntryName is the name of the function that initializes globals and
// calls main.
const EntryName = "_start"

// Module is a complete compiled unit: the global table plus the function
// table. It is immutable after creation and safe for concurrent use.
type Module struct {
	globals   []Global
	functions []*Function
	entry     *Function
	filename  string
}

// ModuleParams contains parameters for creating a new Module.
type ModuleParams struct {
	Globals   []Global
	Functions []*Function
	// Entry is serialized ahead of Functions. It may be nil.
	Entry    *Function
	Filename string
}

// NewModule creates a new immutable Module from the given parameters.
func NewModule(params ModuleParams) *Module {
	return &Module{
		globals:   copyGlobals(params.Globals),
		functions: copyFunctions(params.Functions),
		entry:     params.Entry,
		filename:  params.Filename,
	}
}

// Filename returns the name of the source file the module was compiled from.
func (m *Module) Filename() string {
	return m.filename
}

// GlobalCount returns the number of globals declared by the program,
// excluding the interned function names.
func (m *Module) GlobalCount() int {
	return len(m.globals)
}

// GlobalAt returns the global at the given index.
func (m *Module) GlobalAt(index int) Global {
	return m.globals[index]
}

// FunctionCount returns the number of user functions, excluding the entry
// function.
func (m *Module) FunctionCount() int {
	return len(m.functions)
}

// FunctionAt returns the user function at the given index.
func (m *Module) FunctionAt(index int) *Function {
	return m.functions[index]
}

// Function returns the user function with the given name, if present.
func (m *Module) Function(name string) (*Function, bool) {
	for _, fn := range m.functions {
		if fn.Name() == name {
			return fn, true
		}
	}
	return nil, false
}

// Entry returns the entry function, or nil if the module has none.
func (m *Module) Entry() *Function {
	return m.entry
}

// Functions returns every function in serialized order: the entry function
// first (if any), then the user functions. Call operands index this list.
func (m *Module) Functions() []*Function {
	fns := make([]*Function, 0, len(m.functions)+1)
	if m.entry != nil {
		fns = append(fns, m.entry)
	}
	return append(fns, m.functions...)
}

// WireGlobals returns the global table as it is serialized: the program's
// globals followed by one string global per function name, in the order of
// Functions.
func (m *Module) WireGlobals() []Global {
	fns := m.Functions()
	globals := make([]Global, 0, len(m.globals)+len(fns))
	globals = append(globals, m.globals...)
	for _, fn := range fns {
		globals = append(globals, NewString(fn.Name()))
	}
	return globals
}

// NameIndex returns the wire global index holding the name of the i-th
// function of Functions.
func (m *Module) NameIndex(i int) int {
	return len(m.globals) + i
}

// Stats returns statistics about the module.
func (m *Module) Stats() Stats {
	var stats Stats
	for _, g := range m.globals {
		if g.Kind == GlobalString {
			stats.StringCount++
		} else {
			stats.GlobalCount++
		}
	}
	for _, fn := range m.Functions() {
		stats.FunctionCount++
		stats.InstructionCount += fn.InstructionCount()
	}
	return stats
}
