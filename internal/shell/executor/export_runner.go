package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sakin2155/anime-auto-scraper-1/internal/core/domain"
)

// ExportRunner spawns the external exporter and persists its stdout as the dump file
type ExportRunner struct {
	program     string
	leadingArgs []string
	subcommand  string
	console     io.Writer
}

// NewExportRunner creates a runner invoking: program leadingArgs... subcommand <limit>
func NewExportRunner(program string, leadingArgs []string, subcommand string) *ExportRunner {
	return &ExportRunner{
		program:     program,
		leadingArgs: leadingArgs,
		subcommand:  subcommand,
		console:     os.Stdout,
	}
}

// SetConsole sets where recognised progress lines are echoed
func (r *ExportRunner) SetConsole(w io.Writer) {
	r.console = w
}

// Args returns the arguments passed to the exporter for the given limit
func (r *ExportRunner) Args(limit int) []string {
	args := make([]string, 0, len(r.leadingArgs)+2)
	args = append(args, r.leadingArgs...)
	return append(args, r.subcommand, strconv.Itoa(limit))
}

// Run executes one export job. It succeeds only when the exporter exits 0 and
// the output file has been closed without error.
func (r *ExportRunner) Run(ctx context.Context, job domain.ExportJob) (domain.ExportResult, error) {
	start := time.Now()
	result := domain.ExportResult{File: job.OutputPath}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0755); err != nil {
		return result, fmt.Errorf("%w: create output directory: %v", domain.ErrOutputWrite, err)
	}

	file, err := os.Create(job.OutputPath)
	if err != nil {
		return result, fmt.Errorf("%w: create output file: %v", domain.ErrOutputWrite, err)
	}

	cmd := exec.CommandContext(ctx, r.program, r.Args(job.Limit)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		file.Close()
		return result, fmt.Errorf("%w: %v", domain.ErrExporterStart, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		file.Close()
		return result, fmt.Errorf("%w: %v", domain.ErrExporterStart, err)
	}

	log.Printf("[DEBUG] ExportRunner - starting %s %s", r.program, strings.Join(r.Args(job.Limit), " "))

	if err := cmd.Start(); err != nil {
		file.Close()
		return result, fmt.Errorf("%w: %v", domain.ErrExporterStart, err)
	}

	var diagnostics strings.Builder
	var progress domain.ProgressSummary
	scanDone := make(chan error, 1)
	go func() {
		scanDone <- r.scanDiagnostics(stderr, &diagnostics, &progress)
	}()

	written, copyErr := io.Copy(file, stdout)
	if copyErr != nil {
		// Keep draining so the exporter never blocks on a full pipe
		io.Copy(io.Discard, stdout)
	}
	scanErr := <-scanDone
	waitErr := cmd.Wait()
	closeErr := file.Close()

	result.Bytes = written
	result.Diagnostics = diagnostics.String()
	result.Progress = progress
	result.Duration = time.Since(start)

	if scanErr != nil {
		log.Printf("[DEBUG] ExportRunner - diagnostic stream read failed: %v", scanErr)
	}

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("export interrupted: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return result, &domain.ExportProcessError{ExitCode: exitErr.ExitCode()}
		}
		return result, fmt.Errorf("export process failed: %w", waitErr)
	}

	if copyErr != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrOutputWrite, copyErr)
	}
	if closeErr != nil {
		return result, fmt.Errorf("%w: close output file: %v", domain.ErrOutputWrite, closeErr)
	}

	result.Success = true
	log.Printf("[DEBUG] ExportRunner - export finished: file=%s, bytes=%d, duration=%s", job.OutputPath, written, result.Duration)
	return result, nil
}

// scanDiagnostics accumulates the exporter's stderr and echoes progress lines as they arrive
func (r *ExportRunner) scanDiagnostics(stderr io.Reader, diagnostics *strings.Builder, progress *domain.ProgressSummary) error {
	reader := bufio.NewReader(stderr)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			diagnostics.WriteString(line)
			if event, ok := ParseProgress(line); ok {
				progress.Record(event)
				r.echo(event)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (r *ExportRunner) echo(event domain.ProgressEvent) {
	if r.console == nil {
		return
	}
	if event.Message == "" {
		fmt.Fprintf(r.console, "[%s]\n", event.Kind)
		return
	}
	fmt.Fprintln(r.console, event.Message)
}
