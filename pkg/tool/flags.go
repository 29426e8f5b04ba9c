// Copyright 2020 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"errors"
	"strings"
)

// CfgsFlag is a flag.Value holding a comma-separated list of config files.
// Empty list elements are dropped, so "a.json," is the same as "a.json".
type CfgsFlag []string

func (cfgs *CfgsFlag) String() string {
	return strings.Join(*cfgs, ",")
}

func (cfgs *CfgsFlag) Set(value string) error {
	if *cfgs != nil {
		return errors.New("config files are already set")
	}
	files := strings.FieldsFunc(value, func(r rune) bool { return r == ',' })
	*cfgs = make(CfgsFlag, 0, len(files))
	for _, file := range files {
		if file = strings.TrimSpace(file); file != "" {
			*cfgs = append(*cfgs, file)
		}
	}
	if len(*cfgs) == 0 {
		return errors.New("no config files specified")
	}
	return nil
}
