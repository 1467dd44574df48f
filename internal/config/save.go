package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/sled/internal/log"
)

// ErrConfigExists indicates WriteDefaultConfig found a file at the target path.
var ErrConfigExists = errors.New("config file already exists")

// DefaultConfigTemplate returns the default config as commented YAML.
func DefaultConfigTemplate() (string, error) {
	d := Defaults()

	flagNames := make([]string, 0, len(d.Flags))
	for name := range d.Flags {
		flagNames = append(flagNames, name)
	}
	slices.Sort(flagNames)
	flagEntries := make([]*yaml.Node, 0, 2*len(flagNames))
	for _, name := range flagNames {
		flagEntries = append(flagEntries, pair(name, boolNode(d.Flags[name]), "")...)
	}

	root := mapping(
		section("editor", "Line editor",
			pair("capacity", intNode(d.Editor.Capacity), "maximum line length in bytes"),
			pair("tab_width", intNode(d.Editor.TabWidth), "columns per displayed tab"),
			pair("escape_timeout", strNode(d.Editor.EscapeTimeout.String()), "wait for the rest of an escape sequence")),
		section("ui", "Display",
			pair("color", boolNode(d.UI.Color), "colour the mode indicator")),
		section("output", "Where the final line goes",
			pair("print", boolNode(d.Output.Print), "write to stdout"),
			pair("newline", boolNode(d.Output.Newline), "trailing newline on stdout"),
			pair("file_newline", boolNode(d.Output.FileNewline), "trailing newline in the file"),
			pair("append", boolNode(d.Output.Append), "append to the file instead of truncating"),
			pair("file", strNode(d.Output.File), "destination file, empty for none")),
		pair("bypass", boolNode(d.Bypass), "skip editing and emit the first line"),
		pair("debug", boolNode(d.Debug), "write a debug log"),
		pair("log_file", strNode(d.LogFile), ""),
		section("flags", "Feature flags", flagEntries),
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "sled configuration",
		Content:     []*yaml.Node{root},
	}); err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	return buf.String(), nil
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. The parent directory is created if needed; an
// existing file is never overwritten.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	content, err := DefaultConfigTemplate()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s: %w", configPath, ErrConfigExists)
	}
	if err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config file", err, "path", configPath)
		return fmt.Errorf("creating config file: %w", err)
	}

	_, writeErr := f.WriteString(content)
	if err := errors.Join(writeErr, f.Close()); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// ============================================================================
// yaml.Node builders
// ============================================================================

func mapping(entries ...[]*yaml.Node) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		n.Content = append(n.Content, e...)
	}
	return n
}

// section builds a key with a nested mapping value.
func section(name, comment string, entries ...[]*yaml.Node) []*yaml.Node {
	value := mapping(entries...)
	k := &yaml.Node{Kind: yaml.ScalarNode, Value: name, HeadComment: comment}
	return []*yaml.Node{k, value}
}

func pair(name string, value *yaml.Node, comment string) []*yaml.Node {
	value.LineComment = comment
	return []*yaml.Node{{Kind: yaml.ScalarNode, Value: name}, value}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
