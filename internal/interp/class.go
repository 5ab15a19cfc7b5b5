package interp

import (
	"recforge/internal/record"
)

// Callable is a method body the interpreter can invoke.
type Callable interface {
	Call(in *Interp, self Value, args []Value) (Value, error)
}

// NativeMethod adapts a Go function into a Callable. It stands in for
// user-written methods in tests and embedding code.
type NativeMethod func(in *Interp, self Value, args []Value) (Value, error)

func (f NativeMethod) Call(in *Interp, self Value, args []Value) (Value, error) {
	return f(in, self, args)
}

// Class is the runtime view of a record type.
type Class struct {
	Record  *record.Record
	methods map[string]Callable
}

// NewClass creates a class with no method bodies.
func NewClass(rec *record.Record) *Class {
	return &Class{Record: rec, methods: make(map[string]Callable)}
}

func (c *Class) Name() string { return c.Record.Name }

// Define installs a method body.
func (c *Class) Define(name string, m Callable) {
	c.methods[name] = m
}

// Method returns the body of name.
func (c *Class) Method(name string) (Callable, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Resolves reports whether name is a method of the class, whether or not a
// body has been installed yet.
func (c *Class) Resolves(name string) bool {
	if _, ok := c.methods[name]; ok {
		return true
	}
	return c.Record.Defines(name)
}

// Instance is an object of a record type.
type Instance struct {
	Class *Class
	slots map[string]Value
}

// Get reads an attribute.
func (o *Instance) Get(name string) (Value, bool) {
	v, ok := o.slots[name]
	return v, ok
}

// Set writes an attribute.
func (o *Instance) Set(name string, v Value) {
	o.slots[name] = v
}

func (c *Class) alloc() *Instance {
	o := &Instance{Class: c, slots: make(map[string]Value, len(c.Record.Fields))}
	// Fields with a literal default read back the default until assigned,
	// including init=false fields the constructor never touches.
	for _, f := range c.Record.StateFields() {
		if f.Default != nil {
			o.slots[f.Name] = FromLiteral(*f.Default)
		}
	}
	return o
}
