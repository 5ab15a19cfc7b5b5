package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"recforge/internal/derive"
	"recforge/internal/diag"
	"recforge/internal/observ"
	"recforge/internal/record"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const pointsTOML = `
[[record]]
name = "Point"
order = true
  [[record.field]]
  name = "x"
  type = "int"
  [[record.field]]
  name = "y"
  type = "int"

[[record]]
name = "Bag"
  [[record.field]]
  name = "items"
  type = "list"
  default_factory = "list"
`

const brokenYAML = "record:\n  - name: [unclosed\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestRunIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	points := writeFile(t, dir, "points.toml", pointsTOML)
	broken := writeFile(t, dir, "broken.yaml", brokenYAML)

	var mu sync.Mutex
	done := map[string]Status{}
	sink := SinkFunc(func(ev Event) {
		if ev.Record == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if ev.Status == StatusDone || ev.Status == StatusError {
			done[ev.Record] = ev.Status
		}
	})

	timer := observ.NewTimer()
	rep, err := Run(context.Background(), []string{points, broken}, Options{
		Jobs:   2,
		Verify: true,
		Logger: zaptest.NewLogger(t),
		Sink:   sink,
		Timer:  timer,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.RunID == "" {
		t.Fatal("run id not set")
	}
	if !rep.Failed() {
		t.Fatal("report must record the failures")
	}
	if len(rep.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(rep.Records))
	}

	point, bag := rep.Records[0], rep.Records[1]
	if point.Err != nil || !point.Verified || len(point.Result.Fragments) != 9 {
		t.Fatalf("Point = %+v", point)
	}
	if bag.Result != nil || !errors.Is(bag.Err, derive.ErrUnsupportedFeature) {
		t.Fatalf("Bag = %+v", bag)
	}
	if diff := cmp.Diff([]string{"IO3003", "DRV1001"}, codes(rep.Bag)); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]Status{"Point": StatusDone, "Bag": StatusError}, done); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	for _, phase := range []string{observ.PhaseLoad, observ.PhaseDerive, observ.PhaseVerify} {
		found := false
		for _, p := range timer.Report().Phases {
			found = found || p.Name == phase
		}
		if !found {
			t.Errorf("phase %s not timed", phase)
		}
	}
}

func TestRunWithoutInputs(t *testing.T) {
	rep, err := Run(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !errors.Is(rep.Err, ErrNoInputs) {
		t.Fatalf("err = %v", rep.Err)
	}
	if diff := cmp.Diff([]string{"IO3004"}, codes(rep.Bag)); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
}

func TestRunReportsInvalidDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.toml", `
[[record]]
name = "R"
  [[record.field]]
  name = "a"
  type = "int"
  default = 1
  [[record.field]]
  name = "b"
  type = "int"
`)
	rep, err := Run(context.Background(), []string{path}, Options{Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rep.Records) != 0 {
		t.Fatalf("records = %d, want 0", len(rep.Records))
	}
	items := rep.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.DrvFieldOrder || len(items[0].Notes) != 1 {
		t.Fatalf("diagnostics = %+v", items)
	}
	var de *record.DeclError
	if !errors.As(rep.Err, &de) || de.Field != "b" {
		t.Fatalf("err = %v", rep.Err)
	}
}

func TestDeriveKeepsInputOrder(t *testing.T) {
	var inputs []Input
	for i := range 40 {
		rec := record.NewBuilder(fmt.Sprintf("R%02d", i)).
			Add("v", record.Named("int")).
			Order(i%2 == 0).
			MustBuild()
		inputs = append(inputs, Input{File: "gen.toml", Record: rec})
	}
	events := make(chan Event, 4*len(inputs))
	rep, err := Derive(context.Background(), inputs, Options{Jobs: 4, Verify: true, Sink: ChannelSink{Ch: events}})
	close(events)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	for i, r := range rep.Records {
		if r.Record != inputs[i].Record {
			t.Fatalf("result %d is for %s", i, r.Record.Name)
		}
		want := 5
		if i%2 == 0 {
			want = 9
		}
		if r.Err != nil || len(r.Result.Fragments) != want {
			t.Fatalf("%s: err=%v fragments=%d", r.Record.Name, r.Err, len(r.Result.Fragments))
		}
	}
	n := 0
	for ev := range events {
		if ev.Status == StatusDone {
			n++
		}
	}
	if n != len(inputs) {
		t.Fatalf("done events = %d, want %d", n, len(inputs))
	}
}

func TestDeriveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := record.NewBuilder("P").Add("x", record.Named("int")).MustBuild()
	_, err := Derive(ctx, []Input{{Record: rec}}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestVerifyFailureDiagnostic(t *testing.T) {
	bug := &derive.SynthesisError{Kind: derive.InternalBug, Record: "P", Method: "__eq__", Msg: "P has no attribute \"z\"", Source: "def __eq__(self, other: P) -> bool:\n    return self.z\n"}
	d := failureDiagnostic("p.toml", "P", &verifyError{err: bug})
	if d.Code != diag.DrvVerifyFailed || d.Source == "" || d.Origin.Method != "__eq__" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if !errors.Is(&verifyError{err: bug}, derive.ErrInternalBug) {
		t.Fatal("verify failures must match ErrInternalBug")
	}
}

func TestLoadDoesNotDerive(t *testing.T) {
	dir := t.TempDir()
	points := writeFile(t, dir, "points.toml", pointsTOML)
	dup := writeFile(t, dir, "dup.toml", pointsTOML+pointsTOML)

	rep, err := Load(context.Background(), []string{points, dup, dup}, Options{Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rep.Records) != 0 {
		t.Fatalf("Load derived %d records", len(rep.Records))
	}
	if len(rep.Sources) != 3 || len(rep.Sources[0].Records) != 2 {
		t.Fatalf("unexpected sources %+v", rep.Sources)
	}
	// dup.toml is listed twice; its diagnostics are reported once.
	if got := codes(rep.Bag); len(got) != 2 {
		t.Fatalf("codes = %v, want one per duplicated record", got)
	}
	if !rep.Failed() {
		t.Fatalf("duplicate declarations should fail the run")
	}
}
