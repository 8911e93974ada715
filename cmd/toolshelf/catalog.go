package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toolshelf/toolshelf/internal/catalog"
)

// catalogFile is the YAML shape of a catalog fixture.
type catalogFile struct {
	Actions []actionSpec `yaml:"actions"`
}

type actionSpec struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Origin       string `yaml:"origin"`
	Schema       string `yaml:"schema"`
	Instructions string `yaml:"instructions"`
}

// loadCatalog reads a YAML catalog fixture into action descriptors,
// preserving file order.
func loadCatalog(path string) ([]catalog.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	actions := make([]catalog.Action, 0, len(file.Actions))
	for i, spec := range file.Actions {
		if spec.Name == "" {
			return nil, fmt.Errorf("catalog action %d: missing name", i)
		}
		origin, err := parseOrigin(spec.Origin)
		if err != nil {
			return nil, fmt.Errorf("catalog action %q: %w", spec.Name, err)
		}
		schema := json.RawMessage(`{"type":"object"}`)
		if spec.Schema != "" {
			schema = json.RawMessage(spec.Schema)
		}
		actions = append(actions, catalog.Action{
			Name:         spec.Name,
			Description:  spec.Description,
			InputSchema:  schema,
			Origin:       origin,
			Instructions: spec.Instructions,
		})
	}
	return actions, nil
}

// parseOrigin parses "core", "extension:<id>", or "mcp:<label>".
func parseOrigin(s string) (catalog.Origin, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "core" {
		return catalog.Core(), nil
	}
	kind, id, found := strings.Cut(s, ":")
	if !found || id == "" {
		return catalog.Origin{}, fmt.Errorf("invalid origin %q", s)
	}
	switch kind {
	case "extension", "ext":
		return catalog.Extension(id), nil
	case "mcp":
		return catalog.MCPServer(id), nil
	default:
		return catalog.Origin{}, fmt.Errorf("unknown origin kind %q", kind)
	}
}
