// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNested struct {
	Aaa int    `json:"aaa"`
	Bbb string `json:"bbb"`
}

type testConfig struct {
	Foo int          `json:"foo"`
	Bar string       `json:"bar"`
	Qux []string     `json:"qux"`
	Box testNested   `json:"box"`
	Boq *testNested  `json:"boq"`
	Arr []testNested `json:"arr"`
	Rat float64      `json:"rat"`
}

func TestLoad(t *testing.T) {
	tests := []struct {
		input  string
		output testConfig
		err    string
	}{
		{
			input:  `{"foo": 42}`,
			output: testConfig{Foo: 42},
		},
		{
			input:  `{"BAR": "Baz", "foo": 42}`,
			output: testConfig{Foo: 42, Bar: "Baz"},
		},
		{
			input: `{"foobar": 42}`,
			err:   `unknown field "foobar"`,
		},
		{
			input: `
# comment
{"foo": 1, "box": {"aaa": 12, "bbb": "bbb"}}
	# another comment`,
			output: testConfig{Foo: 1, Box: testNested{Aaa: 12, Bbb: "bbb"}},
		},
		{
			input:  `{"qux": ["aaa", "bbb"], "rat": 0.5}`,
			output: testConfig{Qux: []string{"aaa", "bbb"}, Rat: 0.5},
		},
		{
			input: `{"boq": {"aaa": 1}, "arr": [{"aaa": 2}, {"bbb": "x"}]}`,
			output: testConfig{
				Boq: &testNested{Aaa: 1},
				Arr: []testNested{{Aaa: 2}, {Bbb: "x"}},
			},
		},
		{
			input: `{"foo": "bar"}`,
			err:   "cannot unmarshal string",
		},
	}
	for i, test := range tests {
		var cfg testConfig
		err := LoadData([]byte(test.input), &cfg)
		if test.err != "" {
			require.Error(t, err, "#%v", i)
			assert.Contains(t, err.Error(), test.err, "#%v", i)
			continue
		}
		require.NoError(t, err, "#%v", i)
		assert.Equal(t, test.output, cfg, "#%v", i)
	}
}

func TestLoadYAML(t *testing.T) {
	var cfg testConfig
	err := LoadYAMLData([]byte(`
foo: 3
qux: [a, b]
box:
  aaa: 7
`), &cfg)
	require.NoError(t, err)
	assert.Equal(t, testConfig{Foo: 3, Qux: []string{"a", "b"}, Box: testNested{Aaa: 7}}, cfg)

	err = LoadYAMLData([]byte("unknown: 1\n"), &cfg)
	assert.Error(t, err)
}

func TestSaveLoadFile(t *testing.T) {
	cfg := testConfig{Foo: 5, Bar: "bar", Arr: []testNested{{Aaa: 1}}}
	for _, name := range []string{"cfg.json", "cfg.yaml"} {
		file := filepath.Join(t.TempDir(), name)
		require.NoError(t, SaveFile(file, cfg))
		var loaded testConfig
		require.NoError(t, LoadFile(file, &loaded))
		assert.Equal(t, cfg, loaded, name)
	}
	assert.Error(t, LoadFile("", &cfg))
}
