package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// helperPayload has no trailing newline and non-UTF-8 bytes so byte-for-byte copying is observable
const helperPayload = "INSERT INTO anime (id, title) VALUES (1, 'Cowboy Bebop');\n" +
	"INSERT INTO anime (id, title) VALUES (2, 'Mushishi');\n\x00\xff\xfe-- end"

// TestHelperProcess is not a real test. It is the fake exporter spawned by the
// tests below, selected by GO_WANT_HELPER_PROCESS and driven by HELPER_MODE.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}

	switch os.Getenv("HELPER_MODE") {
	case "echo-args":
		fmt.Fprint(os.Stdout, strings.Join(args, " "))
	case "payload":
		fmt.Fprintln(os.Stderr, "Found 2 anime to export")
		fmt.Fprintln(os.Stderr, "Exporting Cowboy Bebop")
		fmt.Fprintln(os.Stderr, "debug: cache warm")
		os.Stdout.WriteString(helperPayload[:40])
		fmt.Fprintln(os.Stderr, "✓ Wrote Cowboy Bebop")
		fmt.Fprintln(os.Stderr, "PROGRESS item Mushishi")
		os.Stdout.WriteString(helperPayload[40:])
		fmt.Fprintln(os.Stderr, "PROGRESS written Mushishi")
		fmt.Fprint(os.Stderr, "Export complete")
	case "fail":
		os.Stdout.WriteString("INSERT INTO anime (id) VALUES (1);\n")
		fmt.Fprintln(os.Stderr, "Error: upstream returned 503")
		os.Exit(3)
	}
	os.Exit(0)
}

func newHelperRunner(t *testing.T, mode string) (*ExportRunner, *bytes.Buffer) {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_MODE", mode)

	runner := NewExportRunner(os.Args[0], []string{"-test.run=TestHelperProcess", "--"}, "export-sql")
	console := &bytes.Buffer{}
	runner.SetConsole(console)
	return runner, console
}

func newJob(t *testing.T, limit int) domain.ExportJob {
	t.Helper()
	job, err := domain.NewExportJob(filepath.Join(t.TempDir(), "nested", "output"), limit, time.Now())
	if err != nil {
		t.Fatalf("NewExportJob failed: %v", err)
	}
	return job
}

func TestExportRunner_Args(t *testing.T) {
	runner := NewExportRunner("node", []string{"index.js"}, "export-sql")

	args := runner.Args(100)
	expected := []string{"index.js", "export-sql", "100"}
	if strings.Join(args, " ") != strings.Join(expected, " ") {
		t.Errorf("Expected args %v, got %v", expected, args)
	}

	// Args must not alias the runner's leading args
	args[0] = "changed"
	if runner.Args(1)[0] != "index.js" {
		t.Error("Expected leading args to be unaffected by caller mutation")
	}
}

func TestExportRunner_PassesLimitAsDecimal(t *testing.T) {
	for _, limit := range []int{0, 1, 7, 100, 2500} {
		t.Run(fmt.Sprintf("limit_%d", limit), func(t *testing.T) {
			runner, _ := newHelperRunner(t, "echo-args")
			job := newJob(t, limit)

			result, err := runner.Run(context.Background(), job)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			got, err := os.ReadFile(result.File)
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}

			expected := fmt.Sprintf("export-sql %d", limit)
			if string(got) != expected {
				t.Errorf("Expected exporter argv %q, got %q", expected, string(got))
			}
		})
	}
}

func TestExportRunner_PersistsStdoutVerbatim(t *testing.T) {
	runner, console := newHelperRunner(t, "payload")
	job := newJob(t, 2)

	result, err := runner.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Success {
		t.Error("Expected success")
	}

	if result.File != job.OutputPath {
		t.Errorf("Expected file %s, got %s", job.OutputPath, result.File)
	}

	got, err := os.ReadFile(result.File)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	if !bytes.Equal(got, []byte(helperPayload)) {
		t.Errorf("Output differs from exporter stdout:\nexpected %q\ngot      %q", helperPayload, got)
	}

	if result.Bytes != int64(len(helperPayload)) {
		t.Errorf("Expected %d bytes, got %d", len(helperPayload), result.Bytes)
	}

	if !strings.Contains(result.Diagnostics, "debug: cache warm") {
		t.Error("Expected the raw diagnostic text to include non-progress lines")
	}

	echoed := console.String()
	for _, line := range []string{"Found 2 anime to export", "Exporting Cowboy Bebop", "✓ Wrote Cowboy Bebop", "Mushishi", "Export complete"} {
		if !strings.Contains(echoed, line) {
			t.Errorf("Expected console to echo %q, got %q", line, echoed)
		}
	}
	if strings.Contains(echoed, "debug: cache warm") {
		t.Error("Expected non-progress lines not to be echoed")
	}

	progress := result.Progress
	if progress.Discovered != 2 || progress.Items != 2 || progress.Written != 2 || !progress.Completed {
		t.Errorf("Unexpected progress summary: %+v", progress)
	}
}

func TestExportRunner_NonZeroExit(t *testing.T) {
	runner, _ := newHelperRunner(t, "fail")
	job := newJob(t, 10)

	result, err := runner.Run(context.Background(), job)
	if err == nil {
		t.Fatal("Expected an error for a failing exporter")
	}

	var processErr *domain.ExportProcessError
	if !errors.As(err, &processErr) {
		t.Fatalf("Expected ExportProcessError, got %T: %v", err, err)
	}

	if processErr.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", processErr.ExitCode)
	}

	if result.Success {
		t.Error("Expected result not to be successful")
	}

	if !strings.Contains(result.Diagnostics, "upstream returned 503") {
		t.Errorf("Expected diagnostics to be captured on failure, got %q", result.Diagnostics)
	}

	// Partial output is left on disk
	if _, err := os.Stat(job.OutputPath); err != nil {
		t.Errorf("Expected partial output file to remain: %v", err)
	}
}

func TestExportRunner_SpawnFailure(t *testing.T) {
	runner := NewExportRunner(filepath.Join(t.TempDir(), "no-such-exporter"), nil, "export-sql")
	runner.SetConsole(nil)

	_, err := runner.Run(context.Background(), newJob(t, 0))
	if !errors.Is(err, domain.ErrExporterStart) {
		t.Fatalf("Expected ErrExporterStart, got %v", err)
	}

	var processErr *domain.ExportProcessError
	if errors.As(err, &processErr) {
		t.Error("Expected spawn failure to bypass the exit-code path")
	}
}

func TestExportRunner_OutputDirectoryIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	job, err := domain.NewExportJob(filepath.Join(blocker, "output"), 0, time.Now())
	if err != nil {
		t.Fatalf("NewExportJob failed: %v", err)
	}

	runner := NewExportRunner("true", nil, "export-sql")
	if _, err := runner.Run(context.Background(), job); !errors.Is(err, domain.ErrOutputWrite) {
		t.Errorf("Expected ErrOutputWrite, got %v", err)
	}
}
