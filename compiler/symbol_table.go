package compiler

import (
	"sort"

	"github.com/c0lang/c0/errors"
	"github.com/c0lang/c0/token"
)

// Scope describes where a symbol lives at run time.
type Scope string

const (
	Global   Scope = "global"
	Param    Scope = "param"
	Local    Scope = "local"
	Function Scope = "function"
	Builtin  Scope = "builtin"
)

// Symbol is one named entry in the symbol table.
type Symbol struct {
	name          string
	scope         Scope
	index         int
	isConstant    bool
	isInitialized bool
	typ           ValueType
	signature     *Signature
	builtin       *builtin
}

func (s *Symbol) Name() string {
	return s.name
}

func (s *Symbol) Scope() Scope {
	return s.scope
}

// Index is the slot of a variable within its scope's offset space, or the
// position of a function in the module's function table.
func (s *Symbol) Index() int {
	return s.index
}

func (s *Symbol) IsConstant() bool {
	return s.isConstant
}

func (s *Symbol) IsInitialized() bool {
	return s.isInitialized
}

func (s *Symbol) Type() ValueType {
	return s.typ
}

// Signature returns the signature of a function or builtin symbol, or nil
// for variables.
func (s *Symbol) Signature() *Signature {
	return s.signature
}

func (s *Symbol) isReserved() bool {
	return s.scope == Function && s.index < 0
}

// IsCallable reports whether the symbol names a function or builtin.
func (s *Symbol) IsCallable() bool {
	return s.scope == Function || s.scope == Builtin
}

// SymbolTable is a stack of scope frames, innermost last. Frame 0 holds
// globals, functions and builtins. Parameter and local offsets restart at
// zero for each function and are never reused within it.
type SymbolTable struct {
	frames      []map[string]*Symbol
	globalCount int
	paramCount  int
	localCount  int
}

// NewSymbolTable returns a table holding only the global frame.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{frames: []map[string]*Symbol{{}}}
}

// PushScope opens a new innermost scope.
func (t *SymbolTable) PushScope() {
	t.frames = append(t.frames, map[string]*Symbol{})
}

// PopScope closes the innermost scope. The global frame is never popped.
func (t *SymbolTable) PopScope() {
	if len(t.frames) > 1 {
		t.frames = t.frames[:len(t.frames)-1]
	}
}

// Depth returns the number of open scopes, counting the global one.
func (t *SymbolTable) Depth() int {
	return len(t.frames)
}

// IsGlobalScope reports whether declarations currently land in the global
// frame.
func (t *SymbolTable) IsGlobalScope() bool {
	return len(t.frames) == 1
}

// EnterFunction resets the parameter and local offset spaces and opens the
// function's body scope.
func (t *SymbolTable) EnterFunction() {
	t.paramCount = 0
	t.localCount = 0
	t.PushScope()
}

// ParamCount returns the number of parameters declared in the current
// function.
func (t *SymbolTable) ParamCount() int {
	return t.paramCount
}

// LocalCount returns the number of locals declared in the current function
// so far, across all of its blocks.
func (t *SymbolTable) LocalCount() int {
	return t.localCount
}

// GlobalCount returns the number of global slots claimed so far.
func (t *SymbolTable) GlobalCount() int {
	return t.globalCount
}

// ClaimSlot reserves the next global index without binding a name to it.
func (t *SymbolTable) ClaimSlot() int {
	idx := t.globalCount
	t.globalCount++
	return idx
}

// checkFree fails if name is already declared in the given frame.
func (t *SymbolTable) checkFree(frame int, name string) error {
	if _, exists := t.frames[frame][name]; exists {
		return errors.Errorf(errors.DuplicateDeclaration, token.NoPos,
			"%q is already declared in this scope", name)
	}
	return nil
}

// Declare adds a variable to the innermost scope. In the global frame it
// receives the next global index, elsewhere the next local offset of the
// current function.
func (t *SymbolTable) Declare(name string, isConst, isInitialized bool, typ ValueType) (*Symbol, error) {
	if err := t.checkFree(len(t.frames)-1, name); err != nil {
		return nil, err
	}
	sym := &Symbol{
		name:          name,
		isConstant:    isConst,
		isInitialized: isInitialized,
		typ:           typ,
	}
	if t.IsGlobalScope() {
		sym.scope = Global
		sym.index = t.ClaimSlot()
	} else {
		sym.scope = Local
		sym.index = t.localCount
		t.localCount++
	}
	t.frames[len(t.frames)-1][name] = sym
	return sym, nil
}

// DeclareParam adds a parameter of the current function. Parameters are
// always initialized.
func (t *SymbolTable) DeclareParam(name string, isConst bool, typ ValueType) (*Symbol, error) {
	if err := t.checkFree(len(t.frames)-1, name); err != nil {
		return nil, err
	}
	sym := &Symbol{
		name:          name,
		scope:         Param,
		index:         t.paramCount,
		isConstant:    isConst,
		isInitialized: true,
		typ:           typ,
	}
	t.paramCount++
	t.frames[len(t.frames)-1][name] = sym
	return sym, nil
}

// DeclareFunction adds a function to the global frame. Functions share the
// global namespace with global variables.
func (t *SymbolTable) DeclareFunction(name string, index int, sig *Signature) (*Symbol, error) {
	if err := t.checkFree(0, name); err != nil {
		return nil, err
	}
	sym := &Symbol{
		name:          name,
		scope:         Function,
		index:         index,
		isConstant:    true,
		isInitialized: true,
		typ:           sig.Return,
		signature:     sig,
	}
	t.frames[0][name] = sym
	return sym, nil
}

// reserve claims a name in the global frame for the entry function. It
// cannot be declared again or called from the program.
func (t *SymbolTable) reserve(name string) {
	t.frames[0][name] = &Symbol{
		name:          name,
		scope:         Function,
		index:         -1,
		isConstant:    true,
		isInitialized: true,
		typ:           Void,
		signature:     &Signature{Return: Void},
	}
}

func (t *SymbolTable) declareBuiltin(b *builtin) {
	t.frames[0][b.name] = &Symbol{
		name:          b.name,
		scope:         Builtin,
		isConstant:    true,
		isInitialized: true,
		typ:           b.signature.Return,
		signature:     &b.signature,
		builtin:       b,
	}
}

// Resolve looks a name up, innermost scope first.
func (t *SymbolTable) Resolve(name string) (*Symbol, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if sym, ok := t.frames[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (t *SymbolTable) notDeclared(name string) *errors.CompileError {
	err := errors.Errorf(errors.NotDeclared, token.NoPos, "%q is not declared", name)
	err.Suggestions = errors.SuggestSimilar(name, t.AllNames())
	return err
}

// MarkInitialized flags a variable as having been assigned.
func (t *SymbolTable) MarkInitialized(name string) error {
	sym, ok := t.Resolve(name)
	if !ok {
		return t.notDeclared(name)
	}
	sym.isInitialized = true
	return nil
}

// ResolveRead resolves a name whose value is about to be read.
func (t *SymbolTable) ResolveRead(name string) (*Symbol, error) {
	sym, ok := t.Resolve(name)
	if !ok {
		return nil, t.notDeclared(name)
	}
	if sym.IsCallable() {
		return nil, errors.Errorf(errors.InvalidCall, token.NoPos,
			"function %q cannot be used as a value", name)
	}
	if !sym.isInitialized {
		return nil, errors.Errorf(errors.NotInitialized, token.NoPos,
			"%q is used before it is initialized", name)
	}
	return sym, nil
}

// ResolveAssign resolves a name that is about to be assigned to.
func (t *SymbolTable) ResolveAssign(name string) (*Symbol, error) {
	sym, ok := t.Resolve(name)
	if !ok {
		return nil, t.notDeclared(name)
	}
	if sym.IsCallable() {
		return nil, errors.Errorf(errors.InvalidCall, token.NoPos,
			"cannot assign to function %q", name)
	}
	if sym.isConstant {
		return nil, errors.Errorf(errors.AssignToConstant, token.NoPos,
			"cannot assign to constant %q", name)
	}
	return sym, nil
}

// ResolveCall resolves a name that is about to be called.
func (t *SymbolTable) ResolveCall(name string) (*Symbol, error) {
	sym, ok := t.Resolve(name)
	if !ok {
		return nil, t.notDeclared(name)
	}
	if !sym.IsCallable() {
		return nil, errors.Errorf(errors.InvalidCall, token.NoPos,
			"%q is not a function", name)
	}
	if sym.isReserved() {
		return nil, errors.Errorf(errors.InvalidCall, token.NoPos,
			"%q is the entry function and cannot be called", name)
	}
	return sym, nil
}

// AllNames returns every name visible from the innermost scope, sorted.
func (t *SymbolTable) AllNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, frame := range t.frames {
		for name, sym := range frame {
			if sym.isReserved() {
				continue
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
