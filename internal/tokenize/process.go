package tokenize

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"subcorpus/internal/logging"
)

const closeGrace = 2 * time.Second

// Process is a tokenizer backed by a long-running subprocess that answers
// every input line with exactly one output line.
type Process struct {
	name     string
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	writer   *bufio.Writer
	reader   *bufio.Reader
	unescape bool
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// StartProcess launches name with args. unescape removes backslash escapes
// from responses (kytea escapes spaces inside tokens).
func StartProcess(ctx context.Context, name string, args []string, unescape bool, logger *slog.Logger) (*Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("tokenizer stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("tokenizer stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start tokenizer %s: %w", name, err)
	}
	return &Process{
		name:     name,
		cmd:      cmd,
		stdin:    stdin,
		writer:   bufio.NewWriter(stdin),
		reader:   bufio.NewReader(stdout),
		unescape: unescape,
		logger:   logging.NewComponentLogger(logger, "tokenizer"),
	}, nil
}

// Tokenize sends one line and reads one line back. A closed pipe yields no
// tokens and no error; any other I/O failure is returned.
func (p *Process) Tokenize(text string) ([]string, error) {
	line := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, text)

	if _, err := p.writer.WriteString(line + "\n"); err != nil {
		return p.pipeFailure("write", err)
	}
	if err := p.writer.Flush(); err != nil {
		return p.pipeFailure("flush", err)
	}
	response, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return p.pipeFailure("read", err)
		}
		return nil, fmt.Errorf("read from tokenizer %s: %w", p.name, err)
	}
	return splitOutput(response, p.unescape), nil
}

func (p *Process) pipeFailure(op string, err error) ([]string, error) {
	if errors.Is(err, unix.EPIPE) || errors.Is(err, unix.EINVAL) || errors.Is(err, io.EOF) {
		logging.WarnWithContext(p.logger, "tokenizer pipe closed", "tokenizer_pipe_closed",
			logging.String("op", op),
			logging.String("command", p.name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the tokenizer command runs on its own"),
			logging.String(logging.FieldImpact, "line emitted without tokens"),
		)
		return nil, nil
	}
	return nil, fmt.Errorf("%s tokenizer %s: %w", op, p.name, err)
}

// Close closes stdin, waits briefly for the process to exit and kills it
// otherwise. It is safe to call more than once.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		_ = p.stdin.Close()
		done := make(chan error, 1)
		go func() { done <- p.cmd.Wait() }()
		select {
		case err := <-done:
			var exitErr *exec.ExitError
			if err != nil && !errors.As(err, &exitErr) {
				p.closeErr = fmt.Errorf("wait for tokenizer %s: %w", p.name, err)
			}
		case <-time.After(closeGrace):
			_ = p.cmd.Process.Kill()
			<-done
		}
	})
	return p.closeErr
}
