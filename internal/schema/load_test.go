package schema

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"recforge/internal/diag"
	"recforge/internal/record"
)

const layerTOML = `
[[record]]
name = "Layer"
order = true
methods = ["__post_init__"]

  [[record.field]]
  name = "width"
  type = "int"

  [[record.field]]
  name = "norm"
  type = "Tensor"
  optional = true
  default_none = true

  [[record.field]]
  name = "scale"
  type = "float"
  default = 1.0
  constructor_only = true

  [[record.field]]
  name = "cache"
  type = "Dict[str, int]"
  init = false
  compare = false
  repr = false
  default_factory = "dict"
`

const layerYAML = `
record:
  - name: Layer
    order: true
    methods: [__post_init__]
    field:
      - {name: width, type: int}
      - {name: norm, type: Tensor, optional: true, default_none: true}
      - {name: scale, type: float, default: 1.0, constructor_only: true}
      - name: cache
        type: Dict[str, int]
        init: false
        compare: false
        repr: false
        default_factory: dict
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func wantLayer() *record.Record {
	return record.NewBuilder("Layer").
		Add("width", record.Named("int")).
		Add("norm", record.OptionalOf("Tensor"), record.WithDefault(record.NoneLit())).
		Add("scale", record.Named("float"), record.WithDefault(record.FloatLit(1)), record.ConstructorOnly()).
		Add("cache", record.Named("Dict[str, int]"), record.NoInit(), record.NoCompare(), record.NoRepr(), record.WithDefaultFactory("dict")).
		Define(record.MethodPostInit).
		Order(true).
		MustBuild()
}

var recordCmp = cmp.Options{
	cmp.Comparer(func(a, b record.MethodSet) bool { return cmp.Equal(a.Names(), b.Names()) }),
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name, file, content string
		format              Format
	}{
		{"toml", "layers.toml", layerTOML, FormatTOML},
		{"yaml", "layers.yaml", layerYAML, FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if src.Format != tt.format {
				t.Fatalf("format = %s, want %s", src.Format, tt.format)
			}
			if len(src.Invalid) != 0 {
				t.Fatalf("unexpected invalid records: %v", src.Invalid[0])
			}
			if diff := cmp.Diff([]*record.Record{wantLayer()}, src.Records, recordCmp); diff != "" {
				t.Fatalf("records (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeMsgpack(&buf, Table([]*record.Record{wantLayer()})); err != nil {
		t.Fatalf("encode: %v", err)
	}
	src, err := Load(writeFile(t, "layers.mp", buf.String()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]*record.Record{wantLayer()}, src.Records, recordCmp); diff != "" {
		t.Fatalf("records (-want +got):\n%s", diff)
	}
}

func TestInvalidRecordIsIsolated(t *testing.T) {
	doc := `
[[record]]
name = "Bad"
  [[record.field]]
  name = "a"
  type = "int"
  default = 0
  [[record.field]]
  name = "b"
  type = "int"

[[record]]
name = "Good"
  [[record.field]]
  name = "a"
  type = "int"

[[record]]
name = "Good"
`
	src, err := Load(writeFile(t, "mixed.toml", doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(src.Records) != 1 || src.Records[0].Name != "Good" {
		t.Fatalf("records = %v", src.Records)
	}
	if len(src.Invalid) != 2 {
		t.Fatalf("invalid = %d, want 2", len(src.Invalid))
	}
	if src.Invalid[0].Code != diag.DrvFieldOrder || src.Invalid[0].Field != "b" {
		t.Fatalf("first invalid = %+v", src.Invalid[0])
	}
	if src.Invalid[1].Record != "Good" {
		t.Fatalf("duplicate not reported: %+v", src.Invalid[1])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
		code                diag.Code
	}{
		{"unknown extension", "records.json", "{}", diag.IOUnknownFormat},
		{"bad toml", "records.toml", "[[record]\n", diag.IODecodeFailure},
		{"unknown toml key", "records.toml", "[[record]]\nname = \"A\"\nordered = true\n", diag.IODecodeFailure},
		{"unknown yaml key", "records.yaml", "record:\n  - name: A\n    fields: []\n", diag.IODecodeFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("err = %v, want *LoadError", err)
			}
			if le.Code != tt.code {
				t.Fatalf("code = %s, want %s", le.Code.ID(), tt.code.ID())
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	var le *LoadError
	if !errors.As(err, &le) || le.Code != diag.IOLoadFileError || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestFieldDefaults(t *testing.T) {
	tests := []struct {
		name    string
		decl    FieldDecl
		wantErr bool
		want    *record.Literal
	}{
		{name: "int", decl: FieldDecl{Name: "n", Type: "int", Default: int64(3)}, want: ptr(record.IntLit(3))},
		{name: "uint8", decl: FieldDecl{Name: "n", Type: "int", Default: uint8(7)}, want: ptr(record.IntLit(7))},
		{name: "string", decl: FieldDecl{Name: "s", Type: "str", Default: "x"}, want: ptr(record.StrLit("x"))},
		{name: "none", decl: FieldDecl{Name: "o", Type: "Optional[int]", DefaultNone: true}, want: ptr(record.NoneLit())},
		{name: "overflow", decl: FieldDecl{Name: "n", Type: "int", Default: uint64(math.MaxUint64)}, wantErr: true},
		{name: "list", decl: FieldDecl{Name: "l", Type: "list", Default: []any{1}}, wantErr: true},
		{name: "both", decl: FieldDecl{Name: "o", Type: "Optional[int]", Default: int64(1), DefaultNone: true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := RecordDecl{Name: "R", Fields: []FieldDecl{tt.decl}}.Record()
			if tt.wantErr {
				var de *record.DeclError
				if !errors.As(err, &de) {
					t.Fatalf("err = %v, want *record.DeclError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("record: %v", err)
			}
			if diff := cmp.Diff(tt.want, rec.Fields[0].Default); diff != "" {
				t.Fatalf("default (-want +got):\n%s", diff)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.toml":    FormatTOML,
		"a.YML":     FormatYAML,
		"a.yaml":    FormatYAML,
		"a.msgpack": FormatMsgpack,
		"a.mp":      FormatMsgpack,
		"a.txt":     FormatUnknown,
	} {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %s, want %s", path, got, want)
		}
	}
}
