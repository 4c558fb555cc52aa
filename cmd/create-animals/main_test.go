package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default between executions of the
// shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI against an isolated settings file and marker dir.
func run(t *testing.T, dir string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	resetFlags(rootCmd)

	full := append([]string{
		"--config", filepath.Join(dir, "test.conf"),
		"--marker-dir", filepath.Join(dir, "markers"),
		"--non-interactive",
	}, args...)

	var out, errOut bytes.Buffer
	code = execute(context.Background(), full, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestWrongArgumentCountPrintsUsage(t *testing.T) {
	for _, args := range [][]string{{}, {"3"}, {"3", "100", "7"}} {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			code, stdout, _ := run(t, t.TempDir(), args...)
			if code != usageExitCode {
				t.Errorf("exit code = %d, want %d", code, usageExitCode)
			}
			want := "You must enter two arguments\n" +
				"Usage: create-animals [NumberOfAnimalsToCreate] [StartGeneticId]\n" +
				"Example: create-animals 10 1\n"
			if stdout != want {
				t.Errorf("stdout =\n%q\nwant\n%q", stdout, want)
			}
		})
	}
}

func TestNonNumericArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"count", []string{"ten", "1"}},
		{"start", []string{"3", "cow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, t.TempDir(), append(tt.args, "--dry-run")...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.HasPrefix(stderr, "Error: ") {
				t.Errorf("stderr = %q, want Error prefix", stderr)
			}
			if strings.Contains(stdout, "Running transaction") {
				t.Errorf("stdout = %q, want no transactions", stdout)
			}
		})
	}
}

func TestDryRunPrintsCommands(t *testing.T) {
	code, stdout, stderr := run(t, t.TempDir(), "3", "100", "--dry-run")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 6 {
		t.Fatalf("stdout has %d lines, want 6:\n%s", len(lines), stdout)
	}
	for i, id := range []string{"100", "101", "102"} {
		progress, command := lines[2*i], lines[2*i+1]
		if want := "Running transaction " + string(rune('1'+i)) + "..."; progress != want {
			t.Errorf("line %d = %q, want %q", 2*i, progress, want)
		}
		if !strings.HasPrefix(command, "composer transaction submit --card admin@beef-tracer --data '") {
			t.Errorf("line %d = %q, want composer command", 2*i+1, command)
		}
		if !strings.Contains(command, `"geneticId":"`+id+`"`) {
			t.Errorf("line %d = %q, want geneticId %s", 2*i+1, command, id)
		}
	}
}

func TestNegativeCountAfterDoubleDash(t *testing.T) {
	code, stdout, stderr := run(t, t.TempDir(), "--dry-run", "--", "-1", "5")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
}

func TestNegativeCountWithoutDoubleDash(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bare", []string{"-1", "5"}},
		{"flags after", []string{"-3", "5", "--breed", "Angus"}},
		{"flags before", []string{"--card", "farmer@beef-tracer", "-1", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, t.TempDir(), tt.args...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}
			if stdout != "" || stderr != "" {
				t.Errorf("stdout = %q, stderr = %q, want no output", stdout, stderr)
			}
		})
	}
}

func TestNegativeStartID(t *testing.T) {
	code, stdout, stderr := run(t, t.TempDir(), "2", "-3", "--dry-run")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stdout, `"geneticId":"-3"`) || !strings.Contains(stdout, `"geneticId":"-2"`) {
		t.Errorf("stdout = %q, want genetic IDs -3 and -2", stdout)
	}
}

func TestEscapeNegativeArgs(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"3", "100"}, []string{"3", "100"}},
		{[]string{"-1", "5"}, []string{"--", "-1", "5"}},
		{[]string{"-1", "5", "-n"}, []string{"-n", "--", "-1", "5"}},
		{[]string{"--breed", "Gir", "-1", "5"}, []string{"--breed", "Gir", "--", "-1", "5"}},
		{[]string{"--timeout", "-1", "3", "5"}, []string{"--timeout", "-1", "3", "5"}},
		{[]string{"--", "-1", "5"}, []string{"--", "-1", "5"}},
		{[]string{"config", "set", "SUBMIT_TIMEOUT", "-1"}, []string{"config", "set", "SUBMIT_TIMEOUT", "-1"}},
	}

	for _, tt := range tests {
		got := escapeNegativeArgs(rootCmd, tt.args)
		if strings.Join(got, " ") != strings.Join(tt.want, " ") {
			t.Errorf("escapeNegativeArgs(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestFailedSubmissionsExitOne(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	dir := t.TempDir()

	if code, _, stderr := run(t, dir, "config", "set", "SUBMIT_COMMAND", "false"); code != 0 {
		t.Fatalf("config set exit code = %d, stderr = %s", code, stderr)
	}

	code, stdout, stderr := run(t, dir, "2", "1")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if strings.Count(stdout, "Running transaction") != 2 {
		t.Errorf("stdout = %q, want two progress lines", stdout)
	}
	if !strings.Contains(stderr, "2 of 2 transaction(s) failed") {
		t.Errorf("stderr = %q, want failure summary", stderr)
	}
	if strings.Contains(stderr, "Error: ") || strings.Contains(stderr, `"message":"transaction failed"`) {
		t.Errorf("stderr = %q, want each failure reported once", stderr)
	}
}

func TestFlagOverridesReachPayload(t *testing.T) {
	code, stdout, stderr := run(t, t.TempDir(), "1", "5", "--dry-run", "--breed", "Angus", "--card", "farmer@beef-tracer")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stdout, "--card farmer@beef-tracer") || !strings.Contains(stdout, `"breed":"Angus"`) {
		t.Errorf("stdout = %q, want overridden card and breed", stdout)
	}
}

func TestConfigSetGet(t *testing.T) {
	dir := t.TempDir()

	if code, _, stderr := run(t, dir, "config", "set", "ANIMAL_BREED", "Gir"); code != 0 {
		t.Fatalf("config set exit code = %d, stderr = %s", code, stderr)
	}
	code, stdout, _ := run(t, dir, "config", "get", "ANIMAL_BREED")
	if code != 0 || stdout != "Gir\n" {
		t.Errorf("config get = %d %q, want 0 \"Gir\\n\"", code, stdout)
	}

	if code, _, _ := run(t, dir, "config", "set", "CARD", "nope"); code != 1 {
		t.Errorf("config set with invalid card exit code = %d, want 1", code)
	}
	if code, _, _ := run(t, dir, "config", "set", "FARM_NAME", "core"); code != 1 {
		t.Errorf("config set with unknown key exit code = %d, want 1", code)
	}

	_, stdout, _ = run(t, dir, "1", "1", "--dry-run")
	if !strings.Contains(stdout, `"breed":"Gir"`) {
		t.Errorf("stdout = %q, want breed from settings file", stdout)
	}
}

func TestConfigProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "herd.yaml")

	if code, _, stderr := run(t, dir, "config", "profile", path); code != 0 {
		t.Fatalf("config profile exit code = %d, stderr = %s", code, stderr)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("profile not written: %v", err)
	}
	if !strings.Contains(string(data), "breed: Nelore") {
		t.Errorf("profile = %q, want default breed", data)
	}

	if code, _, _ := run(t, dir, "config", "profile", path); code != 1 {
		t.Errorf("second config profile exit code = %d, want 1 without --force", code)
	}
}

func TestStatusListsSubmittedIDs(t *testing.T) {
	dir := t.TempDir()
	markers := filepath.Join(dir, "markers")
	os.MkdirAll(markers, 0755)
	for _, id := range []string{"1", "2", "3", "7"} {
		os.WriteFile(filepath.Join(markers, "submitted-"+id), nil, 0644)
	}

	code, _, stderr := run(t, dir, "status")
	if code != 0 {
		t.Fatalf("status exit code = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stderr, "Submitted genetic IDs (4)") || !strings.Contains(stderr, "1-3") {
		t.Errorf("stderr = %q, want collapsed ID list", stderr)
	}
}

func TestConfigListShowsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "test.conf"), []byte("ANIMAL_BREED=Gir\nFARM_NAME=Boa Vista\n"), 0644)

	code, stdout, stderr := run(t, dir, "config", "list")
	if code != 0 {
		t.Fatalf("config list exit code = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(stdout, "ANIMAL_BREED=Gir (config)") {
		t.Errorf("stdout = %q, want breed from settings file", stdout)
	}
	if !strings.Contains(stdout, "ANIMAL_OWNER="+"resource:org.acme.beef_network.Farmer#Fazendeiro_1 (default)") {
		t.Errorf("stdout = %q, want default owner", stdout)
	}
	if !strings.Contains(stdout, "FARM_NAME=Boa Vista (unknown)") {
		t.Errorf("stdout = %q, want unknown key listed", stdout)
	}
	if !strings.Contains(stderr, "Unknown setting FARM_NAME") {
		t.Errorf("stderr = %q, want warning for unknown key", stderr)
	}
}

func TestResetSelectedIDs(t *testing.T) {
	dir := t.TempDir()
	markers := filepath.Join(dir, "markers")
	os.MkdirAll(markers, 0755)
	for _, id := range []string{"1", "2", "3", "7"} {
		os.WriteFile(filepath.Join(markers, "submitted-"+id), nil, 0644)
	}

	if code, _, stderr := run(t, dir, "reset", "--force", "2-3", "9"); code != 0 {
		t.Fatalf("reset exit code = %d, stderr = %s", code, stderr)
	}
	entries, _ := os.ReadDir(markers)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	if strings.Join(left, ",") != "submitted-1,submitted-7" {
		t.Errorf("markers left = %v, want submitted-1 and submitted-7", left)
	}

	if code, _, _ := run(t, dir, "reset", "--force", "--settings", "1"); code != 1 {
		t.Errorf("reset with IDs and --settings exit code = %d, want 1", code)
	}
	if code, _, _ := run(t, dir, "reset", "--force", "cow"); code != 1 {
		t.Errorf("reset with non-numeric ID exit code = %d, want 1", code)
	}
}

func TestExpandIDs(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{[]string{"7"}, "7", false},
		{[]string{"100-102", "5"}, "100,101,102,5", false},
		{[]string{"4-4"}, "4", false},
		{[]string{"5-3"}, "", true},
		{[]string{"a-3"}, "", true},
		{[]string{"x"}, "", true},
	}

	for _, tt := range tests {
		got, err := expandIDs(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("expandIDs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if strings.Join(got, ",") != tt.want {
			t.Errorf("expandIDs(%v) = %v, want %s", tt.args, got, tt.want)
		}
	}
}

func TestResetForce(t *testing.T) {
	dir := t.TempDir()
	markers := filepath.Join(dir, "markers")
	os.MkdirAll(markers, 0755)
	os.WriteFile(filepath.Join(markers, "submitted-1"), nil, 0644)

	if code, _, stderr := run(t, dir, "reset", "--force"); code != 0 {
		t.Fatalf("reset exit code = %d, stderr = %s", code, stderr)
	}
	if _, err := os.Stat(markers); !os.IsNotExist(err) {
		t.Errorf("marker dir still present after reset: %v", err)
	}
}

func TestCollapseRanges(t *testing.T) {
	tests := []struct {
		ids  []string
		want string
	}{
		{nil, ""},
		{[]string{"5"}, "5"},
		{[]string{"1", "2", "3", "7", "9", "10"}, "1-3,7,9-10"},
		{[]string{"1", "2", "abc"}, "1-2,abc"},
	}

	for _, tt := range tests {
		if got := strings.Join(collapseRanges(tt.ids), ","); got != tt.want {
			t.Errorf("collapseRanges(%v) = %q, want %q", tt.ids, got, tt.want)
		}
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run(t, t.TempDir(), "version")
	if code != 0 || !strings.HasPrefix(stdout, "create-animals version ") {
		t.Errorf("version = %d %q", code, stdout)
	}
}

func TestResetSettings(t *testing.T) {
	dir := t.TempDir()

	if code, _, stderr := run(t, dir, "config", "set", "ANIMAL_WEIGHT", "99 Kg"); code != 0 {
		t.Fatalf("config set exit code = %d, stderr = %s", code, stderr)
	}
	if code, _, stderr := run(t, dir, "reset", "--force", "--settings"); code != 0 {
		t.Fatalf("reset exit code = %d, stderr = %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "test.conf")); !os.IsNotExist(err) {
		t.Errorf("settings file still present after reset --settings: %v", err)
	}
}
