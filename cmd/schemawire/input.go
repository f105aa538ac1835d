package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/schemawire/schemawire/schema"
)

// loadSchema reads a raw description from a JSON schema file.
func loadSchema(path string) (schema.Value, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return schema.Value{}, err
	}
	var v schema.Value
	if err := json.Unmarshal(b, &v); err != nil {
		return schema.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// entryName picks a manifest name for a schema file: the root's declared
// name when present, otherwise the file name without extension.
func entryName(path string, v schema.Value) string {
	if v.Kind == schema.KindAtom || v.Named {
		if v.Name != "" {
			return v.Name
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseModeFlag(s string) (schema.Mode, error) {
	mode, err := schema.ParseMode(s)
	if err != nil {
		return 0, fmt.Errorf("--mode must be atom, structural or nominal (got %q)", s)
	}
	return mode, nil
}
