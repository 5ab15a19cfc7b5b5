package ir

import (
	"strings"
	"testing"

	"recforge/internal/diag"
	"recforge/internal/record"
)

func TestRenderOptionalEquality(t *testing.T) {
	fn := &Func{
		Name: "__eq__",
		Sig:  NewSignature(record.Named("bool"), Param{Name: OtherName, Type: record.Named("Point")}),
		Body: Block(
			If(Binary(OpNe, SelfAttr("x"), OtherAttr("x")), Block(Return(False())), nil),
			Assign(Name("val1"), SelfAttr("norm")),
			Assign(Name("val2"), OtherAttr("norm")),
			If(And(IsNotNone(Name("val1")), IsNotNone(Name("val2"))),
				Block(If(Binary(OpNe, Name("val1"), Name("val2")), Block(Return(False())), nil)),
				Block(If(Binary(OpNe, IsNone(Name("val1")), IsNone(Name("val2"))), Block(Return(False())), nil)),
			),
			Return(True()),
		),
	}
	want := strings.Join([]string{
		"def __eq__(self, other: Point) -> bool:",
		"    if self.x != other.x:",
		"        return False",
		"    val1 = self.norm",
		"    val2 = other.norm",
		"    if val1 is not None and val2 is not None:",
		"        if val1 != val2:",
		"            return False",
		"    elif (val1 is None) != (val2 is None):",
		"        return False",
		"    return True",
		"",
	}, "\n")
	if got := Render(fn); got != want {
		t.Fatalf("render mismatch\n--- got\n%s--- want\n%s", got, want)
	}
	if err := Validate(fn); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRenderFormatAndRaise(t *testing.T) {
	repr := &Func{
		Name: "__repr__",
		Sig:  NewSignature(record.Named("str")),
		Body: Block(Return(Format(Text("P{0}(x="), Value(SelfAttr("x")), Text(")")))),
	}
	if got, want := Render(repr), "def __repr__(self) -> str:\n    return f'P{{0}}(x={self.x})'\n"; got != want {
		t.Fatalf("repr = %q, want %q", got, want)
	}
	hash := &Func{
		Name: "__hash__",
		Sig:  NewSignature(record.Named("int")),
		Body: Block(Raise("NotImplementedError", "no hash", diag.RunHashUnsupported)),
	}
	if got, want := Render(hash), "def __hash__(self) -> int:\n    raise NotImplementedError('no hash')\n"; got != want {
		t.Fatalf("hash = %q, want %q", got, want)
	}
}

func TestSignatureString(t *testing.T) {
	one := record.IntLit(1)
	sig := NewSignature(record.Named("None"),
		Param{Name: "x", Type: record.Named("int")},
		Param{Name: "norm", Type: record.OptionalOf("Tensor"), Default: &one},
	)
	if got, want := sig.String(), "(self, x: int, norm: Optional[Tensor] = 1) -> None"; got != want {
		t.Fatalf("sig = %q, want %q", got, want)
	}
	if sig.Arity() != 2 || sig.Required() != 1 {
		t.Fatalf("arity=%d required=%d", sig.Arity(), sig.Required())
	}
}

func TestValidateRejects(t *testing.T) {
	sig := NewSignature(record.Named("bool"))
	tests := []struct {
		name string
		fn   *Func
		want string
	}{
		{"empty body", &Func{Name: "__eq__", Sig: sig}, "empty block"},
		{"unbound name", &Func{Name: "__eq__", Sig: sig, Body: Block(Return(Name("val1")))}, "not bound"},
		{"empty then", &Func{Name: "__eq__", Sig: sig, Body: Block(If(True(), nil, nil))}, "empty block"},
		{"bad target", &Func{Name: "__eq__", Sig: sig, Body: Block(Assign(True(), True()))}, "cannot assign"},
		{"missing sig", &Func{Name: "__eq__", Body: Block(Pass())}, "missing signature"},
		{"bad name", &Func{Name: "1x", Sig: sig, Body: Block(Pass())}, "invalid method name"},
		{"nil stmt", &Func{Name: "__eq__", Sig: sig, Body: []*Stmt{nil}}, "nil statement"},
		{"kind mismatch", &Func{Name: "__eq__", Sig: sig, Body: Block(&Stmt{Kind: StmtReturn, Data: PassData{}})}, "does not match"},
		{"bad operator", &Func{Name: "__eq__", Sig: sig, Body: Block(Return(Binary(OpInvalid, True(), True())))}, "invalid operator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fn)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateLocalBoundByAssign(t *testing.T) {
	fn := &Func{
		Name: "__lt__",
		Sig:  NewSignature(record.Named("bool"), Param{Name: OtherName, Type: record.Named("P")}),
		Body: Block(
			Assign(Name("val1"), SelfAttr("a")),
			Return(Binary(OpLt, Name("val1"), OtherAttr("a"))),
		),
	}
	if err := Validate(fn); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestWalkExprsVisitsNested(t *testing.T) {
	body := Block(
		Assign(Name("val1"), SelfAttr("a")),
		If(And(IsNotNone(Name("val1")), True()),
			Block(ExprStmt(Call(Name(SelfName), "__post_init__", Name("val1")))),
			Block(Return(Format(Text("x"), Value(OtherAttr("b"))))),
		),
	)
	var attrs []string
	WalkExprs(body, func(e *Expr) {
		if d, ok := e.Data.(AttrData); ok {
			attrs = append(attrs, d.Name)
		}
	})
	if strings.Join(attrs, ",") != "a,b" {
		t.Fatalf("attrs = %v", attrs)
	}
}
