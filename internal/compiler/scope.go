package compiler

import "github.com/orus-lang/orus/internal/regfile"

// binding is one local name resolved to a logical register within the
// scope that declared it.
type binding struct {
	name string
	id   regfile.LogicalID
}

// scopeKind distinguishes a plain block scope from a loop scope, which
// additionally tracks the header IP and break/continue patch lists per
// spec.md 4.7.
type scopeKind uint8

const (
	scopeBlock scopeKind = iota
	scopeLoop
	scopeFunction
)

type scope struct {
	kind     scopeKind
	bindings []binding
	label    string // loop scopes only; empty when unlabeled

	headerIP int       // loop scopes only: IP the backward jump targets
	breaks   patchList // loop scopes only
	continues patchList // loop scopes only
}

// scopeStack resolves variable references outward and tracks which
// scope break/continue target by walking from the innermost scope,
// matching a label when one is given (spec.md 4.7: "break/continue
// search outward for the nearest loop, or labeled loop, by label
// match").
type scopeStack struct {
	scopes []*scope
	alloc  *regfile.Allocator
}

func newScopeStack(alloc *regfile.Allocator) *scopeStack {
	return &scopeStack{alloc: alloc}
}

func (s *scopeStack) pushBlock() {
	s.alloc.EnterScope()
	s.scopes = append(s.scopes, &scope{kind: scopeBlock})
}

func (s *scopeStack) pushFunction() {
	s.alloc.EnterScope()
	s.scopes = append(s.scopes, &scope{kind: scopeFunction})
}

func (s *scopeStack) pushLoop(label string, headerIP int) *scope {
	s.alloc.EnterScope()
	sc := &scope{kind: scopeLoop, label: label, headerIP: headerIP}
	s.scopes = append(s.scopes, sc)
	return sc
}

// pop releases the top scope's temps/locals (spec.md 4.7's Block
// contract: "pop scope releases all temps and locals declared at this
// level").
func (s *scopeStack) pop() *scope {
	n := len(s.scopes)
	top := s.scopes[n-1]
	s.scopes = s.scopes[:n-1]
	s.alloc.ExitScope()
	return top
}

func (s *scopeStack) bind(name string, id regfile.LogicalID) {
	top := s.scopes[len(s.scopes)-1]
	top.bindings = append(top.bindings, binding{name: name, id: id})
}

// resolve walks outward from the innermost scope, returning the
// register id a name was bound to and whether it was found at all.
func (s *scopeStack) resolve(name string) (regfile.LogicalID, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		for j := len(s.scopes[i].bindings) - 1; j >= 0; j-- {
			if s.scopes[i].bindings[j].name == name {
				return s.scopes[i].bindings[j].id, true
			}
		}
	}
	return 0, false
}

// nearestLoop finds the innermost loop scope, or the one matching
// label when non-empty.
func (s *scopeStack) nearestLoop(label string) *scope {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		sc := s.scopes[i]
		if sc.kind != scopeLoop {
			continue
		}
		if label == "" || sc.label == label {
			return sc
		}
	}
	return nil
}
