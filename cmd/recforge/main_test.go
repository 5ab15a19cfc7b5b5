package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const pointTOML = `
[[record]]
name = "Point"
order = true

  [[record.field]]
  name = "x"
  type = "int"

  [[record.field]]
  name = "y"
  type = "int"
`

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command against a throwaway project.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	dir := t.TempDir()
	cfg := filepath.Join(dir, "recforge.toml")
	if err := os.WriteFile(cfg, []byte("[output]\ncolor = \"off\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDecl(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeOff, "off": uiModeOff, "AUTO": uiModeAuto, " on ": uiModeOn}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil {
			t.Fatalf("readUIMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("readUIMode(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown ui mode")
	}
}

func TestDeriveCommandPrintsMethod(t *testing.T) {
	path := writeDecl(t, "point.toml", pointTOML)
	out, _, err := runCLI(t, "derive", "--method", "__eq__", path)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !strings.Contains(out, "# ") || !strings.Contains(out, ": Point\n") {
		t.Fatalf("missing record header:\n%s", out)
	}
	if !strings.Contains(out, "def __eq__(self, other") {
		t.Fatalf("missing __eq__ fragment:\n%s", out)
	}
	if strings.Contains(out, "def __repr__") {
		t.Fatalf("--method should filter other methods:\n%s", out)
	}
}

func TestDeriveCommandRejectsUnknownMethod(t *testing.T) {
	path := writeDecl(t, "point.toml", pointTOML)
	_, _, err := runCLI(t, "derive", "--method", "__len__", path)
	if err == nil || !strings.Contains(err.Error(), "unknown method") {
		t.Fatalf("expected unknown method error, got %v", err)
	}
}

func TestCheckCommandReportsFailures(t *testing.T) {
	good := writeDecl(t, "point.toml", pointTOML)
	bad := writeDecl(t, "broken.yaml", "record: [\n")

	out, _, err := runCLI(t, "check", "--format", "json", good, bad)
	var status exitStatus
	if !errors.As(err, &status) || status.code != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("check output is not JSON: %v\n%s", err, out)
	}
	if !strings.Contains(out, "IO3003") {
		t.Fatalf("expected decode failure code in output:\n%s", out)
	}
}

func TestCheckCommandClean(t *testing.T) {
	path := writeDecl(t, "point.toml", pointTOML)
	out, _, err := runCLI(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out != "1 records ok\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSchemaCommandEmitsMsgpack(t *testing.T) {
	path := writeDecl(t, "point.toml", pointTOML)
	target := filepath.Join(t.TempDir(), "table.mp")
	out, _, err := runCLI(t, "--quiet", "schema", "--emit-msgpack", target, path)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.HasPrefix(out, "Point") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("msgpack file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("msgpack file is empty")
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, true); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "recforge" || payload.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestTimingsFollowOutputFormat(t *testing.T) {
	path := writeDecl(t, "point.toml", pointTOML)
	_, stderr, err := runCLI(t, "--timings", "derive", "--format", "json", path)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	var report struct {
		Phases []struct {
			Name string `json:"name"`
		} `json:"phases"`
	}
	if err := json.Unmarshal([]byte(stderr), &report); err != nil {
		t.Fatalf("timings are not JSON: %v\n%s", err, stderr)
	}
	names := map[string]bool{}
	for _, p := range report.Phases {
		names[p.Name] = true
	}
	for _, want := range []string{"load", "derive", "render"} {
		if !names[want] {
			t.Fatalf("missing %s phase in %+v", want, report.Phases)
		}
	}
}
