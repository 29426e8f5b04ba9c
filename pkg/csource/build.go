// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package csource

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/fuzzscale/pkg/osutil"
	"github.com/google/fuzzscale/prog"
)

var ErrNoCompiler = errors.New("no C compiler")

const (
	buildTimeout = 5 * time.Minute
	runTimeout   = time.Minute
)

// Compiler returns the C compiler to use, $CC or cc.
func Compiler() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "cc"
}

// Build builds a C program from source src and returns name of the resulting binary.
func Build(src []byte) (string, error) {
	compiler := Compiler()
	if _, err := exec.LookPath(compiler); err != nil {
		return "", ErrNoCompiler
	}
	srcFile, err := osutil.TempFile("syz-target-*.c")
	if err != nil {
		return "", err
	}
	defer os.Remove(srcFile)
	if err := osutil.WriteFile(srcFile, src); err != nil {
		return "", err
	}
	bin, err := osutil.TempFile("syz-target")
	if err != nil {
		return "", err
	}
	flags := []string{"-x", "c", "-std=gnu99", "-Wall", "-Werror", "-O1", "-o", bin, srcFile}
	if _, err := osutil.RunCmd(buildTimeout, "", compiler, flags...); err != nil {
		os.Remove(bin)
		return "", fmt.Errorf("failed to build target: %w\ncompiler invocation: %v %v",
			err, compiler, flags)
	}
	return bin, nil
}

// RunBinary runs a binary built with Options.Harness on the input
// and returns the hit coverage sites and the crash site, if any.
// The counters of the binary start from zero, so every hit site is reported as new.
func RunBinary(bin string, input []byte) (*prog.ExecInfo, error) {
	inputFile, err := osutil.TempFile("syz-input")
	if err != nil {
		return nil, err
	}
	defer os.Remove(inputFile)
	if err := osutil.WriteFile(inputFile, input); err != nil {
		return nil, err
	}
	out, err := osutil.RunCmd(runTimeout, "", bin, inputFile)
	if err != nil {
		return nil, err
	}
	return parseOutput(out)
}

func parseOutput(out []byte) (*prog.ExecInfo, error) {
	info := new(prog.ExecInfo)
	for s := bufio.NewScanner(bytes.NewReader(out)); s.Scan(); {
		kind, idStr, ok := strings.Cut(s.Text(), " ")
		if !ok {
			return nil, fmt.Errorf("bad output line %q", s.Text())
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, fmt.Errorf("bad output line %q: %w", s.Text(), err)
		}
		switch kind {
		case prog.NodeCover.String():
			info.NewCover = append(info.NewCover, id)
		case prog.NodeCrash.String():
			info.NewCrashes = append(info.NewCrashes, id)
			info.Crashed = true
			info.Crash = id
		default:
			return nil, fmt.Errorf("bad output line %q", s.Text())
		}
	}
	return info, nil
}
