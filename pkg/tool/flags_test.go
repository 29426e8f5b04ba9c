// Copyright 2020 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCfgsFlag(t *testing.T) {
	tests := []struct {
		args []string
		want CfgsFlag
		fail bool
	}{
		{args: nil, want: nil},
		{args: []string{"-config", "a.json"}, want: CfgsFlag{"a.json"}},
		{args: []string{"-config", "a.json, b.yaml,"}, want: CfgsFlag{"a.json", "b.yaml"}},
		{args: []string{"-config", " , "}, fail: true},
		{args: []string{"-config", "a.json", "-config", "b.json"}, fail: true},
	}
	for _, test := range tests {
		var cfgs CfgsFlag
		flags := flag.NewFlagSet("", flag.ContinueOnError)
		flags.SetOutput(io.Discard)
		flags.Var(&cfgs, "config", "")
		err := flags.Parse(test.args)
		if test.fail {
			assert.Error(t, err, "args: %q", test.args)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, test.want, cfgs)
	}
}
