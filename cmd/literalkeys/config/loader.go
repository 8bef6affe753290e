// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/literalkeys/services/llm"
)

// ErrInvalidConfig indicates a config file that cannot be parsed or a
// setting outside its allowed values.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their YAML path, e.g. "model.backend".
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("glob", validateGlob)
	_ = validate.RegisterValidation("backend", validateBackend)
}

func validateBackend(fl validator.FieldLevel) bool {
	return slices.Contains(llm.Backends, fl.Field().String())
}

// validateGlob accepts patterns that compile with the same matcher used
// for file discovery.
func validateGlob(fl validator.FieldLevel) bool {
	_, err := glob.Compile(fl.Field().String())
	return err == nil
}

// Load reads the configuration.
//
// Description:
//
//	Starts from DefaultConfig and overlays the YAML file at path. When path
//	is empty, FileName is looked up in each of searchDirs in order and the
//	first one found is used; if none exists the defaults are returned.
//	Unknown keys are rejected. The result is not validated; call Validate
//	after applying flag overrides.
//
// Inputs:
//
//	path - Explicit config file, or "" to search
//	searchDirs - Directories to search when path is empty
//
// Outputs:
//
//	Config - The loaded configuration
//	string - The file that was read, or "" if defaults were used
//	error - Wraps ErrInvalidConfig on parse failure; a read error if an
//	        explicit path cannot be opened
func Load(path string, searchDirs ...string) (Config, string, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = find(searchDirs)
		if path == "" {
			return cfg, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", fmt.Errorf("failed to read the config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, "", fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, path, nil
}

func find(dirs []string) string {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Validate checks every setting against its allowed values.
//
// Outputs:
//
//	error - Wraps ErrInvalidConfig and lists each offending field
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// describe renders a field error as "model.backend: must be one of ...".
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + ": is required"
	case "oneof":
		return fmt.Sprintf("%s: %q must be one of [%s]", field, fmt.Sprint(fe.Value()), fe.Param())
	case "backend":
		return fmt.Sprintf("%s: %q must be one of [%s]", field, fmt.Sprint(fe.Value()), strings.Join(llm.Backends, " "))
	case "glob":
		return fmt.Sprintf("%s: %q is not a valid glob", field, fmt.Sprint(fe.Value()))
	case "url", "hostname_port":
		return fmt.Sprintf("%s: %q is not a valid %s", field, fmt.Sprint(fe.Value()), fe.Tag())
	case "min":
		return fmt.Sprintf("%s: needs at least %s entries", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// Write saves cfg as YAML, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
