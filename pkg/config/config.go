// Copyright 2017 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package config loads strict configuration files.
// JSON files may contain comment lines starting with #.
// YAML files (.yaml/.yml) are converted to JSON first and then decoded the same strict way,
// so both formats reject unknown fields.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/fuzzscale/pkg/osutil"
	"sigs.k8s.io/yaml"
)

func LoadFile(filename string, cfg any) error {
	if filename == "" {
		return fmt.Errorf("no config file specified")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if isYAML(filename) {
		return LoadYAMLData(data, cfg)
	}
	return LoadData(data, cfg)
}

var commentRe = regexp.MustCompile(`(^|\n)\s*#[^\n]*`)

func LoadData(data []byte, cfg any) error {
	// Remove comment lines starting with #.
	data = commentRe.ReplaceAll(data, nil)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func LoadYAMLData(data []byte, cfg any) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return LoadData(jsonData, cfg)
}

func SaveFile(filename string, cfg any) error {
	var data []byte
	var err error
	if isYAML(filename) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "\t")
	}
	if err != nil {
		return err
	}
	return osutil.WriteFile(filename, data)
}

func isYAML(filename string) bool {
	ext := filepath.Ext(filename)
	return ext == ".yaml" || ext == ".yml"
}
