package schema

import (
	"fmt"

	"fortio.org/safecast"

	"recforge/internal/diag"
	"recforge/internal/record"
)

// Document is the top level of a declaration file.
type Document struct {
	Records []RecordDecl `toml:"record" yaml:"record" msgpack:"record"`
}

// RecordDecl declares one record type.
type RecordDecl struct {
	Name    string      `toml:"name" yaml:"name" msgpack:"name"`
	Order   bool        `toml:"order,omitempty" yaml:"order,omitempty" msgpack:"order,omitempty"`
	Methods []string    `toml:"methods,omitempty" yaml:"methods,omitempty" msgpack:"methods,omitempty"`
	Fields  []FieldDecl `toml:"field" yaml:"field" msgpack:"field"`
}

// FieldDecl declares one field. Unset flags take the dataclass defaults.
type FieldDecl struct {
	Name            string `toml:"name" yaml:"name" msgpack:"name"`
	Type            string `toml:"type" yaml:"type" msgpack:"type"`
	Optional        bool   `toml:"optional,omitempty" yaml:"optional,omitempty" msgpack:"optional,omitempty"`
	Init            *bool  `toml:"init,omitempty" yaml:"init,omitempty" msgpack:"init,omitempty"`
	Compare         *bool  `toml:"compare,omitempty" yaml:"compare,omitempty" msgpack:"compare,omitempty"`
	Repr            *bool  `toml:"repr,omitempty" yaml:"repr,omitempty" msgpack:"repr,omitempty"`
	Default         any    `toml:"default,omitempty" yaml:"default,omitempty" msgpack:"default,omitempty"`
	DefaultNone     bool   `toml:"default_none,omitempty" yaml:"default_none,omitempty" msgpack:"default_none,omitempty"`
	DefaultFactory  string `toml:"default_factory,omitempty" yaml:"default_factory,omitempty" msgpack:"default_factory,omitempty"`
	ConstructorOnly bool   `toml:"constructor_only,omitempty" yaml:"constructor_only,omitempty" msgpack:"constructor_only,omitempty"`
}

func flag(p *bool) bool { return p == nil || *p }

// Record converts a declaration into a validated descriptor.
func (d RecordDecl) Record() (*record.Record, error) {
	b := record.NewBuilder(d.Name).Define(d.Methods...).Order(d.Order)
	for _, fd := range d.Fields {
		f, err := fd.field(d.Name)
		if err != nil {
			return nil, err
		}
		b.Field(f)
	}
	return b.Build()
}

func (fd FieldDecl) field(recName string) (record.Field, error) {
	typ := record.ParseType(fd.Type)
	if fd.Optional {
		typ.Optional = true
	}
	var opts []record.FieldOption
	if !flag(fd.Init) {
		opts = append(opts, record.NoInit())
	}
	if !flag(fd.Compare) {
		opts = append(opts, record.NoCompare())
	}
	if !flag(fd.Repr) {
		opts = append(opts, record.NoRepr())
	}
	if fd.ConstructorOnly {
		opts = append(opts, record.ConstructorOnly())
	}
	if fd.DefaultFactory != "" {
		opts = append(opts, record.WithDefaultFactory(fd.DefaultFactory))
	}
	switch {
	case fd.DefaultNone && fd.Default != nil:
		return record.Field{}, &record.DeclError{Code: diag.DrvInvalidDecl, Record: recName, Field: fd.Name, Msg: "default and default_none are mutually exclusive"}
	case fd.DefaultNone:
		opts = append(opts, record.WithDefault(record.NoneLit()))
	case fd.Default != nil:
		lit, err := literal(fd.Default)
		if err != nil {
			return record.Field{}, &record.DeclError{Code: diag.DrvInvalidDecl, Record: recName, Field: fd.Name, Msg: err.Error()}
		}
		opts = append(opts, record.WithDefault(lit))
	}
	return record.NewField(fd.Name, typ, opts...), nil
}

// literal converts a decoded scalar. Each decoder has its own integer
// widths; all of them fold into int64.
func literal(v any) (record.Literal, error) {
	switch x := v.(type) {
	case bool:
		return record.BoolLit(x), nil
	case string:
		return record.StrLit(x), nil
	case float64:
		return record.FloatLit(x), nil
	case float32:
		return record.FloatLit(float64(x)), nil
	case int:
		return record.IntLit(int64(x)), nil
	case int8:
		return record.IntLit(int64(x)), nil
	case int16:
		return record.IntLit(int64(x)), nil
	case int32:
		return record.IntLit(int64(x)), nil
	case int64:
		return record.IntLit(x), nil
	case uint8:
		return record.IntLit(int64(x)), nil
	case uint16:
		return record.IntLit(int64(x)), nil
	case uint32:
		return record.IntLit(int64(x)), nil
	case uint64:
		i, err := safecast.Conv[int64](x)
		if err != nil {
			return record.Literal{}, fmt.Errorf("default %d out of range: %w", x, err)
		}
		return record.IntLit(i), nil
	case uint:
		i, err := safecast.Conv[int64](x)
		if err != nil {
			return record.Literal{}, fmt.Errorf("default %d out of range: %w", x, err)
		}
		return record.IntLit(i), nil
	default:
		return record.Literal{}, fmt.Errorf("unsupported default of type %T; use default_factory for non-literal defaults", v)
	}
}

// Declare is the inverse of RecordDecl.Record: it renders a descriptor in
// declaration form.
func Declare(rec *record.Record) RecordDecl {
	d := RecordDecl{Name: rec.Name, Order: rec.Order, Methods: rec.Methods.Names()}
	for _, f := range rec.Fields {
		fd := FieldDecl{
			Name:            f.Name,
			Type:            f.Type.Name,
			Optional:        f.Type.Optional,
			DefaultFactory:  f.DefaultFactory,
			ConstructorOnly: f.ConstructorOnly,
		}
		if !f.Init {
			fd.Init = new(bool)
		}
		if !f.Compare {
			fd.Compare = new(bool)
		}
		if !f.Repr {
			fd.Repr = new(bool)
		}
		if f.Default != nil {
			switch f.Default.Kind {
			case record.LitNone:
				fd.DefaultNone = true
			case record.LitBool:
				fd.Default = f.Default.Bool
			case record.LitInt:
				fd.Default = f.Default.Int
			case record.LitFloat:
				fd.Default = f.Default.Float
			case record.LitStr:
				fd.Default = f.Default.Str
			}
		}
		d.Fields = append(d.Fields, fd)
	}
	return d
}
