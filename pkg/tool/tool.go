// Copyright 2020 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package tool contains helpers shared by the command line binaries.
package tool

import (
	"fmt"
	"os"
)

// Failf prints the message to stderr and exits with status 1.
// It is meant for errors in flags and config files, found before any work has started.
func Failf(msg string, args ...any) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(msg, args...))
	os.Exit(1)
}

func Fail(err error) {
	Failf("%v", err)
}
