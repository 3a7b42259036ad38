// Package runctx isolates the process-wide side effects of a CI run: step
// outputs for the workflow and the host environment file.
package runctx

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/muicebot/plugin-index/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_runctx.go -package=mocks -source=runctx.go RunContext

// RunContext receives everything a run reports outside its own return values
type RunContext interface {
	// SetOutput publishes a step output for later workflow steps
	SetOutput(key, value string) error

	// AppendEnv appends a block of KEY=value lines to the host environment file
	AppendEnv(block string) error
}

// Workflow implements RunContext for GitHub Actions: outputs go to the file
// named by GITHUB_OUTPUT and env blocks to a file in the host checkout.
type Workflow struct {
	fs         afero.Fs
	outputPath string
	envPath    string
	delimiter  func() string
}

// NewWorkflow returns a RunContext writing to outputPath and envPath on fs.
// An empty outputPath drops outputs with a warning; an empty envPath drops env blocks.
func NewWorkflow(fs afero.Fs, outputPath, envPath string) *Workflow {
	return &Workflow{
		fs:         fs,
		outputPath: outputPath,
		envPath:    envPath,
		delimiter:  func() string { return "ghadelimiter_" + uuid.NewString() },
	}
}

// SetOutput appends key=value to the output file. Values spanning several
// lines use the heredoc form the runner expects.
func (w *Workflow) SetOutput(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n") {
		return fmt.Errorf("invalid output key %q", key)
	}
	if w.outputPath == "" {
		logger.Warnf("Output file is not configured, dropping output %s=%s", key, value)
		return nil
	}

	line := key + "=" + value + "\n"
	if strings.Contains(value, "\n") {
		d := w.delimiter()
		line = fmt.Sprintf("%s<<%s\n%s\n%s\n", key, d, value, d)
	}

	if err := w.appendFile(w.outputPath, line); err != nil {
		return fmt.Errorf("failed to write output %s: %w", key, err)
	}
	logger.Debugf("Set output %s", key)
	return nil
}

// AppendEnv appends block, preceded by a newline, to the environment file.
// Blank blocks are ignored.
func (w *Workflow) AppendEnv(block string) error {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil
	}
	if w.envPath == "" {
		logger.Warnf("Environment file is not configured, dropping plugin configuration")
		return nil
	}

	if err := w.appendFile(w.envPath, "\n"+block+"\n"); err != nil {
		return fmt.Errorf("failed to append plugin configuration to %s: %w", w.envPath, err)
	}
	logger.Infof("Appended plugin configuration to %s", w.envPath)
	return nil
}

func (w *Workflow) appendFile(path, text string) error {
	f, err := w.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
