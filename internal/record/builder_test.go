package record

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"recforge/internal/diag"
)

func TestBuildPoint(t *testing.T) {
	rec, err := NewBuilder("Point").
		Add("x", Named("Tensor")).
		Add("y", Named("Tensor")).
		Add("norm", OptionalOf("Tensor"), NoRepr(), WithDefault(NoneLit())).
		Define(MethodPostInit).
		Order(true).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !rec.Order || !rec.HasPostInit() {
		t.Fatalf("flags lost: order=%v postInit=%v", rec.Order, rec.HasPostInit())
	}
	names := func(fs []Field) []string {
		out := make([]string, 0, len(fs))
		for _, f := range fs {
			out = append(out, f.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"x", "y", "norm"}, names(rec.CompareFields())); diff != "" {
		t.Errorf("compare fields (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, names(rec.ReprFields())); diff != "" {
		t.Errorf("repr fields (-want +got):\n%s", diff)
	}
	norm, ok := rec.Field("norm")
	if !ok || !norm.IsOptional() {
		t.Fatalf("norm not optional: %+v", norm)
	}
	if got := norm.Type.String(); got != "Optional[Tensor]" {
		t.Errorf("type string = %q", got)
	}
}

func TestBuildConstructorOnlyExcludedFromState(t *testing.T) {
	rec := NewBuilder("Scaled").
		Add("v", Named("float")).
		Add("scale", Named("float"), ConstructorOnly()).
		Define(MethodPostInit).
		MustBuild()
	if got := len(rec.StateFields()); got != 1 {
		t.Fatalf("state fields = %d, want 1", got)
	}
	if got := len(rec.CompareFields()); got != 1 {
		t.Fatalf("compare fields = %d, want 1", got)
	}
	if got := len(rec.InitFields()); got != 2 {
		t.Fatalf("init fields = %d, want 2", got)
	}
	scale, _ := rec.Field("scale")
	if got := scale.Annotation(); got != "InitVar[float]" {
		t.Errorf("annotation = %q", got)
	}
	if got := scale.ParamType().String(); got != "float" {
		t.Errorf("param type = %q", got)
	}
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		code diag.Code
	}{
		{"bad record name", NewBuilder("1Point"), diag.DrvInvalidDecl},
		{"keyword field", NewBuilder("P").Add("class", Named("int")), diag.DrvInvalidDecl},
		{"self field", NewBuilder("P").Add("self", Named("int")), diag.DrvInvalidDecl},
		{"duplicate", NewBuilder("P").Add("x", Named("int")).Add("x", Named("int")), diag.DrvDuplicateField},
		{"bad type", NewBuilder("P").Add("x", Named("List[int")), diag.DrvInvalidDecl},
		{"default and factory", NewBuilder("P").Add("x", Named("int"), WithDefault(IntLit(1)), WithDefaultFactory("list")), diag.DrvInvalidDecl},
		{"initvar no init", NewBuilder("P").Add("x", Named("int"), ConstructorOnly(), NoInit()), diag.DrvInvalidDecl},
		{"none default on non optional", NewBuilder("P").Add("x", Named("int"), WithDefault(NoneLit())), diag.DrvInvalidDecl},
		{"required after default", NewBuilder("P").Add("x", Named("int"), WithDefault(IntLit(1))).Add("y", Named("int")), diag.DrvFieldOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			var de *DeclError
			if !errors.As(err, &de) {
				t.Fatalf("expected DeclError, got %v", err)
			}
			if de.Code != tt.code {
				t.Fatalf("code = %s, want %s", de.Code.ID(), tt.code.ID())
			}
		})
	}
}

func TestRequiredAfterNonInitDefaultIsAllowed(t *testing.T) {
	_, err := NewBuilder("P").
		Add("cache", Named("int"), NoInit(), WithDefault(IntLit(0))).
		Add("x", Named("int")).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeIdent(t *testing.T) {
	// U+FB01 LATIN SMALL LIGATURE FI folds to "fi" under NFKC.
	rec := NewBuilder("P").Add("ﬁeld", Named("int")).MustBuild()
	if rec.Fields[0].Name != "field" {
		t.Fatalf("name = %q, want field", rec.Fields[0].Name)
	}
}

func TestParseType(t *testing.T) {
	cases := map[string]Type{
		"Tensor":              Named("Tensor"),
		"Optional[Tensor]":    OptionalOf("Tensor"),
		" Optional[ float ] ": OptionalOf("float"),
		"Optional[Tensor":     Named("Optional[Tensor"),
	}
	for in, want := range cases {
		if got := ParseType(in); got != want {
			t.Errorf("ParseType(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestLiteralString(t *testing.T) {
	cases := []struct {
		lit  Literal
		want string
	}{
		{NoneLit(), "None"},
		{BoolLit(true), "True"},
		{IntLit(-3), "-3"},
		{FloatLit(2), "2.0"},
		{FloatLit(0.5), "0.5"},
		{StrLit("it's"), `'it\'s'`},
	}
	for _, c := range cases {
		if got := c.lit.String(); got != c.want {
			t.Errorf("%v.String() = %q, want %q", c.lit.Kind, got, c.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	rec := NewBuilder("P").Add("x", Named("int"), WithDefault(IntLit(1))).Define(MethodEq).MustBuild()
	c := rec.Clone()
	c.Fields[0].Default.Int = 9
	c.Fields[0].Compare = false
	if rec.Fields[0].Default.Int != 1 || !rec.Fields[0].Compare {
		t.Fatal("clone shares state with original")
	}
	if !c.Defines(MethodEq) {
		t.Fatal("clone lost method set")
	}
}
