package profiles

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/macropower/dbtargets/pkg/yaml"
)

// ConfigKey is the reserved top-level key that holds global dbt settings.
const ConfigKey = "config"

// ProfileFile is a parsed profiles.yml.
type ProfileFile struct {
	Path     string
	Profiles []Profile // In source order, without [ConfigKey].
}

// Profile is a named set of targets.
type Profile struct {
	// Target is the profile's default target, nil when unset.
	Target  *string
	Name    string
	Outputs []Target // In source order.
}

// Target is a single named connection configuration.
type Target struct {
	Config TargetConfig
	Name   string
}

// TargetConfig holds the adapter-specific parameters of a [Target].
type TargetConfig map[string]any

// String returns the scalar value of key as a string, or nil when the key
// is missing, empty, or not a scalar.
func (c TargetConfig) String(key string) *string {
	s, ok := scalarString(c[key])
	if !ok {
		return nil
	}

	return &s
}

// Type returns the adapter type, or nil when it is not set.
func (c TargetConfig) Type() *string {
	return c.String("type")
}

// Profile returns the profile with the given name.
func (f *ProfileFile) Profile(name string) (Profile, bool) {
	for _, p := range f.Profiles {
		if p.Name == name {
			return p, true
		}
	}

	return Profile{}, false
}

// ReadFile reads and parses the profiles.yml at path.
func ReadFile(path string) (*ProfileFile, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, &Error{
			Kind:    KindReadError,
			Message: fmt.Sprintf("read %s: %v", path, err),
			Err:     err,
		}
	}

	return Parse(path, data)
}

// Parse parses profiles.yml content. The path is only used in messages.
//
// Duplicate keys collapse to the last value, at the position of the first
// occurrence. Top-level entries that are not mappings are skipped.
func Parse(path string, data []byte) (*ProfileFile, error) {
	var doc any

	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.WithOrderedMaps())

	err := dec.Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil, newNoProfilesError(path, "file is empty")
	}
	if err != nil {
		return nil, newMalformedError(path, yaml.NewErrorWrapper(yaml.WithSource(data)).Wrap(err))
	}

	if doc == nil {
		return nil, newNoProfilesError(path, "file is empty")
	}

	root, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, newMalformedError(path, fmt.Errorf("document root must be a mapping, got %T", doc))
	}

	f := &ProfileFile{Path: path}

	for _, item := range dedupe(root) {
		name := keyString(item.Key)
		if name == ConfigKey {
			continue
		}

		body, ok := item.Value.(yaml.MapSlice)
		if !ok {
			slog.Debug("skip non-mapping profile entry",
				slog.String("path", path),
				slog.String("profile", name),
			)

			continue
		}

		f.Profiles = append(f.Profiles, parseProfile(name, dedupe(body)))
	}

	if len(f.Profiles) == 0 {
		return nil, newNoProfilesError(path, "no profiles defined")
	}

	return f, nil
}

func parseProfile(name string, body yaml.MapSlice) Profile {
	p := Profile{Name: name}

	for _, item := range body {
		switch keyString(item.Key) {
		case "target":
			if s, ok := scalarString(item.Value); ok {
				p.Target = &s
			}

		case "outputs":
			outputs, ok := item.Value.(yaml.MapSlice)
			if !ok {
				continue
			}

			for _, out := range dedupe(outputs) {
				p.Outputs = append(p.Outputs, Target{
					Name:   keyString(out.Key),
					Config: toTargetConfig(out.Value),
				})
			}
		}
	}

	return p
}

func toTargetConfig(v any) TargetConfig {
	cfg := TargetConfig{}

	ms, ok := v.(yaml.MapSlice)
	if !ok {
		return cfg
	}

	for _, item := range ms {
		cfg[keyString(item.Key)] = item.Value
	}

	return cfg
}

// dedupe collapses duplicate keys: the last value wins and keeps the
// position of the first occurrence.
func dedupe(ms yaml.MapSlice) yaml.MapSlice {
	index := make(map[string]int, len(ms))
	out := make(yaml.MapSlice, 0, len(ms))

	for _, item := range ms {
		key := keyString(item.Key)
		if i, ok := index[key]; ok {
			out[i].Value = item.Value

			continue
		}

		index[key] = len(out)
		out = append(out, item)
	}

	return out
}

func keyString(k any) string {
	if k == nil {
		return "null"
	}
	if s, ok := k.(string); ok {
		return s
	}

	return fmt.Sprint(k)
}

func readFile(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if pathInfo.IsDir() {
		return nil, fmt.Errorf("%s: path is a directory", path)
	}
	if !pathInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: unknown file state", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
