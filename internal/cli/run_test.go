package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasktree/internal/view"
)

func runCLI(t *testing.T, stdin string, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	// Keep the developer's own config out of the way.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

const scenarioScript = `{"commands": [
  {"op": "add", "text": "Buy milk"},
  {"op": "add-child", "path": "0", "text": "2%"},
  {"op": "edit", "path": "0-0", "text": "Whole milk"}
]}`

func TestRunFromStdinPrintsFrame(t *testing.T) {
	stdout, stderr, err := runCLI(t, scenarioScript, "run", "-")
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, stderr)
	}

	var f view.Frame
	if err := json.Unmarshal(stdout, &f); err != nil {
		t.Fatalf("unmarshal frame: %v\nstdout:\n%s", err, stdout)
	}
	if f.Count != 2 || len(f.Tasks) != 1 {
		t.Fatalf("unexpected frame: %+v", f)
	}
	child := f.Tasks[0].Children[0]
	if child.Text != "Whole milk" || child.Path != "0-0" {
		t.Fatalf("unexpected child: %+v", child)
	}
	if len(bytes.TrimSpace(stderr)) != 0 {
		t.Fatalf("expected no notices; got:\n%s", stderr)
	}
}

func TestRunFromFileAsOutline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.json")
	if err := os.WriteFile(path, []byte(scenarioScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	stdout, stderr, err := runCLI(t, "", "run", path, "--format", "outline")
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, stderr)
	}
	want := "[0] Buy milk\n  [0-0] Whole milk\n"
	if got := string(stdout); got != want {
		t.Fatalf("outline:\n got: %q\nwant: %q", got, want)
	}
}

func TestRunAcceptsPathAfterDoubleDash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.json")
	if err := os.WriteFile(path, []byte(scenarioScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	// Shape produced by the argv shortcut for `tasktree --format outline -- cmds.json`.
	stdout, stderr, err := runCLI(t, "", "--format", "outline", "run", "--", path)
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, stderr)
	}
	if got := string(stdout); !strings.HasPrefix(got, "[0] Buy milk") {
		t.Fatalf("unexpected outline: %q", got)
	}
}

func TestRunMarkdownWithoutTerminalIsPlain(t *testing.T) {
	stdout, _, err := runCLI(t, scenarioScript, "run", "--format", "markdown")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "- Buy milk\n  - Whole milk\n"
	if got := string(stdout); got != want {
		t.Fatalf("markdown:\n got: %q\nwant: %q", got, want)
	}
}

func TestRunReportsRejectedCommands(t *testing.T) {
	script := `{"commands": [
  {"op": "add", "text": "  "},
  {"op": "delete", "path": "0"},
  {"op": "add", "text": "kept"},
  {"op": "edit", "path": "0", "text": "ignored", "cancel": true},
  {"op": "delete", "path": "0", "confirm": false}
]}`
	stdout, stderr, err := runCLI(t, script, "run", "--results")
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, stderr)
	}
	errOut := string(stderr)
	if !strings.Contains(errOut, "#0 add: Please enter a task!") {
		t.Fatalf("expected empty-input notice; got:\n%s", errOut)
	}
	if !strings.Contains(errOut, "#1 delete 0: That task no longer exists") {
		t.Fatalf("expected stale path notice; got:\n%s", errOut)
	}

	var res []map[string]any
	if err := json.Unmarshal(stdout, &res); err != nil {
		t.Fatalf("unmarshal results: %v\nstdout:\n%s", err, stdout)
	}
	outcomes := []string{}
	for _, r := range res {
		outcomes = append(outcomes, r["outcome"].(string))
	}
	want := []string{"rejected", "rejected", "applied", "cancelled", "cancelled"}
	if strings.Join(outcomes, ",") != strings.Join(want, ",") {
		t.Fatalf("outcomes: got %v want %v", outcomes, want)
	}
}

func TestRunStrictFailsOnRejection(t *testing.T) {
	_, stderr, err := runCLI(t, `{"commands": [{"op": "delete", "path": "0"}]}`, "run", "--strict")
	if err == nil {
		t.Fatalf("expected error with --strict")
	}
	if !strings.Contains(string(stderr), "1 of 1 commands rejected") {
		t.Fatalf("unexpected stderr:\n%s", stderr)
	}
}

func TestRunInvalidScript(t *testing.T) {
	_, stderr, err := runCLI(t, `{"commands": [{"op": "explode"}]}`, "run")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if len(stderr) == 0 {
		t.Fatalf("expected error on stderr")
	}

	_, _, err = runCLI(t, "", "run", filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "script not found") {
		t.Fatalf("expected missing script error; got %v", err)
	}
}

func TestConfigCommandHonoursEnvAndFlags(t *testing.T) {
	t.Setenv("TASKTREE_WEB_ADDR", "127.0.0.1:9999")
	stdout, stderr, err := runCLI(t, "", "config", "--log-level", "debug")
	if err != nil {
		t.Fatalf("config: %v\nstderr:\n%s", err, stderr)
	}
	var env struct {
		Data struct {
			Log struct {
				Level string `json:"level"`
			} `json:"log"`
			Web struct {
				Addr string `json:"addr"`
			} `json:"web"`
		} `json:"data"`
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v\nstdout:\n%s", err, stdout)
	}
	if env.Data.Web.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected env addr; got %q", env.Data.Web.Addr)
	}
	if env.Data.Log.Level != "debug" {
		t.Fatalf("expected flag log level; got %q", env.Data.Log.Level)
	}
}

func TestConfigFileFormatUsedWhenFlagUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasktree.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: outline\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	stdout, stderr, err := runCLI(t, scenarioScript, "--config", path, "run")
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, stderr)
	}
	if !strings.HasPrefix(string(stdout), "[0] Buy milk") {
		t.Fatalf("expected outline output from config; got:\n%s", stdout)
	}
}

func TestRootRejectsArgs(t *testing.T) {
	if _, _, err := runCLI(t, "", "nope"); err == nil {
		t.Fatalf("expected unknown command error")
	}
}

func TestDocs(t *testing.T) {
	stdout, _, err := runCLI(t, "", "docs")
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.Contains(string(stdout), `"scripts"`) {
		t.Fatalf("expected topic list; got:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, "", "docs", "paths")
	if err != nil {
		t.Fatalf("docs paths: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Paths") {
		t.Fatalf("expected raw markdown without a terminal; got:\n%s", stdout)
	}

	if _, _, err := runCLI(t, "", "docs", "nope"); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
