// Package launchfile loads the gamelaunch.yml document: the menu tree,
// the games, and the hooks around them.
package launchfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pkt.systems/gamelaunch/schema"
)

// DefaultRecorderHost is used when the document omits recorder.host.
const DefaultRecorderHost = "localhost"

// DefaultRecorderPort is used when the document omits recorder.port.
const DefaultRecorderPort = "34234"

// rootMenu must exist in every document; sessions start on it.
const rootMenu = "main"

// Load reads and validates the document at path.
func Load(path string) (schema.LaunchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.LaunchConfig{}, fmt.Errorf("read launch file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a document.
func Parse(data []byte) (schema.LaunchConfig, error) {
	var cfg schema.LaunchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return schema.LaunchConfig{}, fmt.Errorf("parse launch file: %w", err)
	}

	for i := range cfg.Games {
		cfg.Games[i].Index = i
	}

	if cfg.Recorder.Host == "" {
		cfg.Recorder.Host = DefaultRecorderHost
	}
	if cfg.Recorder.Port == "" {
		cfg.Recorder.Port = DefaultRecorderPort
	}

	if err := validate(cfg); err != nil {
		return schema.LaunchConfig{}, err
	}
	return cfg, nil
}

func validate(cfg schema.LaunchConfig) error {
	if _, ok := cfg.Menus[rootMenu]; !ok {
		return fmt.Errorf("launch file: menu %q is required", rootMenu)
	}
	for name, menu := range cfg.Menus {
		if err := validateMenu(name, menu); err != nil {
			return err
		}
	}
	for _, game := range cfg.Games {
		if game.Name == "" {
			return fmt.Errorf("launch file: game %d has no name", game.Index)
		}
		if game.Image == "" {
			return fmt.Errorf("launch file: game %q has no image", game.Name)
		}
		if err := validateMenu(fmt.Sprintf("game %q", game.Name), game.Menu); err != nil {
			return err
		}
	}
	return nil
}

func validateMenu(name string, menu schema.MenuDefinition) error {
	seen := make(map[string]bool)
	for _, entry := range menu.Items {
		if entry.IsGenerator() {
			switch entry.Generator {
			case schema.GeneratorBlank, schema.GeneratorGames:
			default:
				return fmt.Errorf("launch file: menu %s has unknown generator %q", name, entry.Generator)
			}
			continue
		}
		item := entry.Item
		if len(item.Key) != 1 {
			return fmt.Errorf("launch file: menu %s item %q needs a single-character key", name, item.Title)
		}
		if seen[item.Key] {
			return fmt.Errorf("launch file: menu %s has duplicate key %q", name, item.Key)
		}
		seen[item.Key] = true
		if item.Action == "" {
			return fmt.Errorf("launch file: menu %s item %q has no action", name, item.Key)
		}
	}
	return nil
}
