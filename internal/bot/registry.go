package bot

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed commands.yaml
var commandsYAML []byte

// CommandMeta describes one slash command: its help text and whether it
// is restricted to group admins. Loaded from the embedded commands.yaml
// so the help output and the dispatcher never disagree.
type CommandMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Usage       string `yaml:"usage"`
	Example     string `yaml:"example"`
	Admin       bool   `yaml:"admin"`
}

type command struct {
	meta CommandMeta
	run  func(ctx context.Context, c *Context)
}

// loadCommandMeta parses the embedded command table, preserving file
// order for the general help listing
func loadCommandMeta() ([]CommandMeta, map[string]CommandMeta, error) {
	var doc struct {
		Commands []CommandMeta `yaml:"commands"`
	}
	if err := yaml.Unmarshal(commandsYAML, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing command table: %w", err)
	}
	byName := make(map[string]CommandMeta, len(doc.Commands))
	for _, m := range doc.Commands {
		if m.Name == "" {
			return nil, nil, fmt.Errorf("command table entry without a name")
		}
		if _, dup := byName[m.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate command %q in command table", m.Name)
		}
		byName[m.Name] = m
	}
	return doc.Commands, byName, nil
}
