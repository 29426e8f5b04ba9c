// Copyright 2017 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package osutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"time"
)

const (
	DefaultDirPerm  = 0755
	DefaultFilePerm = 0644
)

// RunCmd runs "bin args..." in dir with timeout and returns its output.
func RunCmd(timeout time.Duration, dir, bin string, args ...string) ([]byte, error) {
	cmd := Command(bin, args...)
	cmd.Dir = dir
	return Run(timeout, cmd)
}

// Run runs cmd and kills its whole process group if it does not finish within timeout.
// Returns combined output, on failure the error is *VerboseError that includes the output.
func Run(timeout time.Duration, cmd *exec.Cmd) ([]byte, error) {
	output := new(bytes.Buffer)
	if cmd.Stdout == nil {
		cmd.Stdout = output
	}
	if cmd.Stderr == nil {
		cmd.Stderr = output
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %v %+v: %w", cmd.Path, cmd.Args, err)
	}
	var timedOut atomic.Bool
	timer := time.AfterFunc(timeout, func() {
		timedOut.Store(true)
		killPgroup(cmd)
		cmd.Process.Kill()
	})
	err := cmd.Wait()
	timer.Stop()
	if err == nil {
		return output.Bytes(), nil
	}
	verr := &VerboseError{
		Title:  fmt.Sprintf("failed to run %q: %v", cmd.Args, err),
		Output: output.Bytes(),
	}
	if timedOut.Load() {
		verr.Title = fmt.Sprintf("timedout after %v %q", timeout, cmd.Args)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		verr.ExitCode = exitErr.ExitCode()
	}
	return output.Bytes(), verr
}

// Command is similar to os/exec.Command, but also sets PDEATHSIG on linux.
func Command(bin string, args ...string) *exec.Cmd {
	cmd := exec.Command(bin, args...)
	setPdeathsig(cmd)
	return cmd
}

type VerboseError struct {
	Title    string
	Output   []byte
	ExitCode int
}

func (err *VerboseError) Error() string {
	if len(err.Output) == 0 {
		return err.Title
	}
	return fmt.Sprintf("%v\n%s", err.Title, err.Output)
}

// IsExist returns true if the file name exists.
func IsExist(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func MkdirAll(dir string) error {
	return os.MkdirAll(dir, DefaultDirPerm)
}

func WriteFile(filename string, data []byte) error {
	return os.WriteFile(filename, data, DefaultFilePerm)
}

// TempFile creates an empty temp file named after pattern (see os.CreateTemp)
// and returns its name. The caller removes the file.
func TempFile(pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// Abs resolves path against the current directory. Empty path stays empty.
func Abs(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %q: %v", path, err))
	}
	return abs
}

// HandleInterrupts returns a context that is canceled on the first SIGINT,
// so that the program can stop gracefully. The second SIGINT terminates the process.
func HandleInterrupts(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt)
	go func() {
		select {
		case <-c:
			fmt.Fprintln(os.Stderr, "SIGINT: shutting down...")
			cancel()
		case <-ctx.Done():
			return
		}
		<-c
		fmt.Fprintln(os.Stderr, "SIGINT: terminating")
		os.Exit(1)
	}()
	return ctx
}
