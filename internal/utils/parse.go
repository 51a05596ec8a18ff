package utils

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DecodeTOMLFile strictly decodes configPath into v. Keys that match no field
// are returned so callers can report typos.
func DecodeTOMLFile(configPath string, v any) ([]string, error) {
	md, err := toml.DecodeFile(configPath, v)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", configPath, err)
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return unknown, nil
}

// ParseTOMLTable decodes configPath into a generic table, for salvaging the
// well-typed keys of a file that failed strict decoding.
func ParseTOMLTable(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	table := make(map[string]any)
	if _, err := toml.Decode(string(data), &table); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", configPath, err)
		return nil, err
	}
	return table, nil
}

// ExtractSection returns the sub-table name of data.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// Extract returns data[key] if it holds a T.
func Extract[T any](data map[string]any, key string) (T, bool) {
	val, ok := data[key].(T)
	return val, ok
}

// ExtractInt returns data[key] as an int. TOML integers decode as int64.
func ExtractInt(data map[string]any, key string) (int, bool) {
	val, ok := Extract[int64](data, key)
	return int(val), ok
}
