package record

// Field describes one declared field of a record type.
type Field struct {
	Name string
	Type Type

	Init    bool
	Compare bool
	Repr    bool

	// Default is the literal default value, nil when the field is required
	// or uses a factory.
	Default *Literal
	// DefaultFactory names a deferred-evaluation default. Non-empty values
	// make the constructor underivable.
	DefaultFactory string

	// ConstructorOnly marks a parameter consumed by the post-construction
	// hook and never stored as state.
	ConstructorOnly bool
}

// FieldOption tweaks a field built by NewField.
type FieldOption func(*Field)

// NewField returns a field with init, compare and repr enabled.
func NewField(name string, typ Type, opts ...FieldOption) Field {
	f := Field{
		Name:    name,
		Type:    typ,
		Init:    true,
		Compare: true,
		Repr:    true,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func NoInit() FieldOption    { return func(f *Field) { f.Init = false } }
func NoCompare() FieldOption { return func(f *Field) { f.Compare = false } }
func NoRepr() FieldOption    { return func(f *Field) { f.Repr = false } }

func WithDefault(lit Literal) FieldOption {
	return func(f *Field) { f.Default = &lit }
}

func WithDefaultFactory(name string) FieldOption {
	return func(f *Field) { f.DefaultFactory = name }
}

func ConstructorOnly() FieldOption {
	return func(f *Field) { f.ConstructorOnly = true }
}

func (f Field) IsOptional() bool        { return f.Type.Optional }
func (f Field) HasDefault() bool        { return f.Default != nil }
func (f Field) HasDefaultFactory() bool { return f.DefaultFactory != "" }

// IsState reports whether the field occupies a slot on instances.
func (f Field) IsState() bool { return !f.ConstructorOnly }

// ParamType is the constructor parameter type. Type never carries the
// constructor-only wrapper (that lives in ConstructorOnly and only shows in
// Annotation), so it is the declared type as is.
func (f Field) ParamType() Type { return f.Type }

// Annotation is the declared annotation as written on the record type.
func (f Field) Annotation() string {
	if f.ConstructorOnly {
		return "InitVar[" + f.Type.String() + "]"
	}
	return f.Type.String()
}
