package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteScaffold when the target file exists and force is not set.
var ErrConfigExists = errors.New("configuration file already exists")

// scaffoldIndent matches the indentation azd uses for azure.yaml.
const scaffoldIndent = 2

// Scaffold writes a starter azdhooks.yaml to w. Every phase is present with no
// steps and a comment listing typical tasks for it.
func Scaffold(w io.Writer) error {
	defaults := Default()

	var logNode, runnerNode yaml.Node

	err := logNode.Encode(defaults.Log)
	if err != nil {
		return fmt.Errorf("encode log section: %w", err)
	}

	err = runnerNode.Encode(defaults.Runner)
	if err != nil {
		return fmt.Errorf("encode runner section: %w", err)
	}

	hooksNode := &yaml.Node{Kind: yaml.MappingNode}

	for _, phase := range lifecycle.Phases() {
		key := scalar(string(phase))
		key.HeadComment = phaseComment(phase)

		hooksNode.Content = append(hooksNode.Content, key, &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle})
	}

	hooksKey := scalar("hooks")
	hooksKey.HeadComment = "# Steps run in order. Use `run` for a shell command or `args` for an argv.\n" +
		"# Set `check: false` to log a failing step as a warning instead of failing the hook."

	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("log"), &logNode,
			scalar("runner"), &runnerNode,
			hooksKey, hooksNode,
		},
	}

	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "# azdhooks configuration. Wire the hooks into azure.yaml with `run: azdhooks <phase>`.",
		Content:     []*yaml.Node{root},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(scaffoldIndent)

	err = encoder.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode scaffold: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("flush scaffold: %w", err)
	}

	return nil
}

// WriteScaffold writes the starter configuration to path, creating parent
// directories. An existing file is only replaced when force is set.
func WriteScaffold(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}

	var buf bytes.Buffer

	err := Scaffold(&buf)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	err = os.WriteFile(path, buf.Bytes(), 0o600)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func phaseComment(phase lifecycle.Phase) string {
	lines := []string{"# " + phase.Description() + ". Examples:"}
	for _, suggestion := range phase.Suggestions() {
		lines = append(lines, "#   - "+suggestion)
	}

	return strings.Join(lines, "\n")
}
