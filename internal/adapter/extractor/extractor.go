// Package extractor invokes the vendor's AIMMS extraction executable to turn
// a raw binary probe capture into the text file the QC pipeline reads. The
// vendor tools only work when the parameter file, input, and output all live
// in the tool's own directory, so the raw file is staged there and the
// output moved back out afterwards.
package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Tool names a supported vendor extraction executable.
type Tool string

const (
	ToolEKF560  Tool = "ekf560A30.exe"
	ToolEKF612  Tool = "ekf612A30.exe"
	ToolCanextr Tool = "canextr4_ssii.exe"
)

// ParseTool validates a tool name from config or CLI.
func ParseTool(name string) (Tool, error) {
	switch Tool(name) {
	case ToolEKF560, ToolEKF612, ToolCanextr:
		return Tool(name), nil
	default:
		return "", fmt.Errorf("unrecognized extraction tool %q", name)
	}
}

// Runner executes a vendor extractor with a hard timeout. The vendor tools
// occasionally never exit on incompatible captures; the timeout turns that
// into a reportable error instead of a hang.
type Runner struct {
	dir     string // directory holding the vendor executables
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner creates an extractor runner rooted at the vendor tool directory.
func NewRunner(dir string, timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{dir: dir, timeout: timeout, logger: logger}
}

// Extract stages rawPath next to the tool, runs it, and moves the resulting
// `<stem>_extract.out` into outDir. A zero-byte output means the tool could
// not read the capture and is treated as failure.
func (r *Runner) Extract(ctx context.Context, rawPath string, tool Tool, outDir string) (string, error) {
	base := filepath.Base(rawPath)
	staged := filepath.Join(r.dir, base)
	if err := copyFile(rawPath, staged); err != nil {
		return "", fmt.Errorf("stage raw capture: %w", err)
	}
	defer os.Remove(staged)

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outName := stem + "_extract.out"

	args := toolArgs(tool, base, outName)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.Info("running extractor", "tool", string(tool), "input", rawPath)

	cmd := exec.CommandContext(ctx, filepath.Join(r.dir, string(tool)), args...)
	cmd.Dir = r.dir
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("extractor %s timed out after %s", tool, r.timeout)
		}
		return "", fmt.Errorf("extractor %s: %w: %s", tool, err, strings.TrimSpace(string(out)))
	}

	produced := filepath.Join(r.dir, outName)
	final := filepath.Join(outDir, outName)
	if err := moveFile(produced, final); err != nil {
		return "", fmt.Errorf("collect extractor output: %w", err)
	}

	info, err := os.Stat(final)
	if err != nil {
		return "", fmt.Errorf("collect extractor output: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("extractor %s produced empty output for %s", tool, rawPath)
	}

	return final, nil
}

// toolArgs builds the vendor-specific argument list. The EKF tools take a
// parameter file and flag pairs; canextr takes bare input and output names.
func toolArgs(tool Tool, inName, outName string) []string {
	switch tool {
	case ToolCanextr:
		return []string{inName, outName}
	default:
		param := strings.TrimSuffix(string(tool), ".exe") + "_param.dat"
		return []string{
			param, inName,
			"-c", "on",
			"-f", "on",
			"-t", "on",
			"-w", "on",
			"-o", outName,
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and delete.
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
