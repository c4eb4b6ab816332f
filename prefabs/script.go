package prefabs

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// EntityScript classifies instanced prefabs that no entity rule matches.
// The script sees the globals `resource` and `name` and assigns `kind`.
type EntityScript struct {
	path     string
	compiled *tengo.Compiled
}

// LoadEntityScript reads and compiles a script by path.
func LoadEntityScript(path string) (*EntityScript, error) {
	src, err := LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", path, err)
	}
	s, err := CompileEntityScript(src)
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile script %s: %w", path, err)
	}
	s.path = path
	return s, nil
}

func CompileEntityScript(src []byte) (*EntityScript, error) {
	script := tengo.NewScript(src)
	_ = script.Add("resource", "")
	_ = script.Add("name", "")
	_ = script.Add("kind", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &EntityScript{compiled: compiled}, nil
}

// Classify runs the script for one node and returns the assigned kind, or
// "" when the script leaves it unset.
func (s *EntityScript) Classify(resource, name string) (string, error) {
	if s == nil || s.compiled == nil {
		return "", nil
	}
	if err := s.compiled.Set("resource", resource); err != nil {
		return "", err
	}
	if err := s.compiled.Set("name", name); err != nil {
		return "", err
	}
	if err := s.compiled.Set("kind", ""); err != nil {
		return "", err
	}
	if err := s.compiled.Run(); err != nil {
		return "", fmt.Errorf("prefabs: run script %s: %w", s.path, err)
	}
	return strings.TrimSpace(s.compiled.Get("kind").String()), nil
}
