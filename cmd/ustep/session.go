package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kolkov/ustep"
)

// sessionNamespace is the name session globals are bound to in scripts.
const sessionNamespace = "session"

// session is the YAML file passed with -s:
//
//	breakpoints: [3, 7]
//	watches:
//	  - total
//	  - items.length
//	max_steps: 100000
//	globals:
//	  limit: 10
//	  names: [ada, grace]
//	this:
//	  id: 1
type session struct {
	Breakpoints []int          `yaml:"breakpoints"`
	Watches     []string       `yaml:"watches"`
	MaxSteps    int            `yaml:"max_steps"`
	Globals     map[string]any `yaml:"globals"`
	This        map[string]any `yaml:"this"`
}

func loadSession(path string) (*session, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("session: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var s session
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("session: %s is empty", path)
		}
		return nil, fmt.Errorf("session: parse %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("session: %s: %w", path, err)
	}
	return &s, nil
}

func (s *session) validate() error {
	var issues []string
	for i, line := range s.Breakpoints {
		if line < 1 {
			issues = append(issues, fmt.Sprintf("breakpoints[%d] must be a positive line number", i))
		}
	}
	for i, w := range s.Watches {
		if strings.TrimSpace(w) == "" {
			issues = append(issues, fmt.Sprintf("watches[%d] must be a non-empty expression", i))
		}
	}
	if s.MaxSteps < 0 {
		issues = append(issues, "max_steps must not be negative")
	}
	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

// globals turns the session values into script globals.
func (s *session) globals() ustep.Globals {
	var g ustep.Globals
	if len(s.Globals) > 0 {
		g.Namespaces = []ustep.Namespace{{Name: sessionNamespace, Values: s.Globals}}
	}
	g.This = s.This
	return g
}
