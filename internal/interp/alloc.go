package interp

import (
	"github.com/orus-lang/orus/internal/bytecode"
	"github.com/orus-lang/orus/internal/value"
)

// The constructors in internal/value only build an *Object; every
// allocation site in this package runs through one of these helpers so
// Heap.Link is never forgotten, per gc.Heap.Link's own doc comment.

func (vm *VirtualMachine) allocString(s string) value.Value {
	o := value.NewStringObject(s)
	vm.heap.Link(o)
	return value.FromObject(o)
}

func (vm *VirtualMachine) allocArray(elems []value.Value) value.Value {
	o := value.NewArrayObject(elems)
	vm.heap.Link(o)
	return value.FromObject(o)
}

func (vm *VirtualMachine) allocError(kind, code, message, file string, line, column int) value.Value {
	o := value.NewErrorObject(kind, code, message, file, line, column)
	vm.heap.Link(o)
	return value.FromObject(o)
}

func (vm *VirtualMachine) allocRangeIter(current, end int64, inclusive bool) value.Value {
	r := value.NewRangeObject(current, end, inclusive)
	vm.heap.Link(r)
	o := value.NewRangeIterObject(r.Rng)
	vm.heap.Link(o)
	return value.FromObject(o)
}

func (vm *VirtualMachine) allocArrayIter(arr *value.ArrayObject) value.Value {
	o := value.NewArrayIterObject(arr)
	vm.heap.Link(o)
	return value.FromObject(o)
}

func (vm *VirtualMachine) allocClosure(chunk *bytecode.Chunk, name string, arity int) value.Value {
	o := value.NewClosureObject(chunk, name, arity, nil)
	vm.heap.Link(o)
	return value.FromObject(o)
}

func (vm *VirtualMachine) allocStruct(typeName string, fields []value.Value) value.Value {
	o := value.NewStructObject(typeName, fields)
	vm.heap.Link(o)
	return value.FromObject(o)
}

func (vm *VirtualMachine) allocEnum(typeName string, variant int, payload []value.Value) value.Value {
	o := value.NewEnumObject(typeName, variant, payload)
	vm.heap.Link(o)
	return value.FromObject(o)
}
