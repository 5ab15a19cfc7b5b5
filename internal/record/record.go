package record

import (
	"slices"
	"sort"
)

// Method names of the slots a record type can occupy.
const (
	MethodInit     = "__init__"
	MethodRepr     = "__repr__"
	MethodHash     = "__hash__"
	MethodEq       = "__eq__"
	MethodNe       = "__ne__"
	MethodLt       = "__lt__"
	MethodLe       = "__le__"
	MethodGt       = "__gt__"
	MethodGe       = "__ge__"
	MethodPostInit = "__post_init__"
)

// MethodSet is the set of methods a record type defines itself.
type MethodSet struct {
	names map[string]struct{}
}

// NewMethodSet returns a set holding names.
func NewMethodSet(names ...string) MethodSet {
	s := MethodSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Has reports whether name is user-defined.
func (s MethodSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s MethodSet) Len() int { return len(s.names) }

// Names returns the sorted method names.
func (s MethodSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Record is the identity of a declared record type.
type Record struct {
	Name    string
	Fields  []Field
	Methods MethodSet
	// Order requests synthesis of <, <=, > and >=.
	Order bool
}

// Defines reports whether the record type already defines method.
func (r *Record) Defines(method string) bool {
	return r.Methods.Has(method)
}

// HasPostInit reports whether construction ends with a hook call.
func (r *Record) HasPostInit() bool {
	return r.Defines(MethodPostInit)
}

// Field looks a field up by name.
func (r *Record) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (r *Record) filter(keep func(Field) bool) []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// InitFields are the constructor parameters, in declaration order.
func (r *Record) InitFields() []Field {
	return r.filter(func(f Field) bool { return f.Init })
}

// StateFields are the fields stored on instances.
func (r *Record) StateFields() []Field {
	return r.filter(Field.IsState)
}

// CompareFields take part in equality and ordering.
func (r *Record) CompareFields() []Field {
	return r.filter(func(f Field) bool { return f.Compare && f.IsState() })
}

// ReprFields are shown by the representation.
func (r *Record) ReprFields() []Field {
	return r.filter(func(f Field) bool { return f.Repr && f.IsState() })
}

// ConstructorOnlyFields are forwarded to the post-construction hook.
func (r *Record) ConstructorOnlyFields() []Field {
	return r.filter(func(f Field) bool { return f.ConstructorOnly })
}

// DefaultFactoryFields lists fields the constructor cannot be derived for.
func (r *Record) DefaultFactoryFields() []Field {
	return r.filter(Field.HasDefaultFactory)
}

// Clone returns a deep copy. Records are shared read-only across goroutines;
// callers that want to tweak a table start from a clone.
func (r *Record) Clone() *Record {
	c := &Record{
		Name:    r.Name,
		Fields:  slices.Clone(r.Fields),
		Methods: NewMethodSet(r.Methods.Names()...),
		Order:   r.Order,
	}
	for i := range c.Fields {
		if d := c.Fields[i].Default; d != nil {
			lit := *d
			c.Fields[i].Default = &lit
		}
	}
	return c
}
