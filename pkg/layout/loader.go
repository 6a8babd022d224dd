package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout description format.
type File struct {
	Name string      `json:"name" toml:"name" yaml:"name"`
	Keys []KeyRegion `json:"keys" toml:"keys" yaml:"keys"`
}

// layoutSchema validates JSON layout files before unmarshaling. TOML and
// YAML layouts get structural validation from their decoders plus the same
// post-load checks.
const layoutSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "keys"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "keys": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "output", "center_x", "center_y", "width", "height"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "output": {"type": "string"},
          "center_x": {"type": "number"},
          "center_y": {"type": "number"},
          "width": {"type": "number", "exclusiveMinimum": 0},
          "height": {"type": "number", "exclusiveMinimum": 0},
          "special": {"type": "boolean"}
        }
      }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("layout.schema.json", bytes.NewReader([]byte(layoutSchema))); err != nil {
		panic(fmt.Sprintf("layout: add schema resource: %v", err))
	}
	schema, err := compiler.Compile("layout.schema.json")
	if err != nil {
		panic(fmt.Sprintf("layout: compile schema: %v", err))
	}
	compiledSchema = schema
}

// Load reads a layout file, dispatching on extension (.json, .toml,
// .yaml/.yml), and returns a provider over its keys.
func Load(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err = parseJSON(data)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("layout: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if err := checkFile(&f); err != nil {
		return nil, err
	}
	return NewStaticProvider(f.Keys), nil
}

// parseJSON validates against the layout schema, then unmarshals.
func parseJSON(data []byte) (File, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return File{}, fmt.Errorf("parse layout json: %w", err)
	}
	if err := compiledSchema.Validate(instance); err != nil {
		return File{}, fmt.Errorf("layout schema: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("decode layout json: %w", err)
	}
	return f, nil
}

// checkFile enforces the invariants the schema covers for JSON on the
// other formats too.
func checkFile(f *File) error {
	if f.Name == "" {
		return fmt.Errorf("layout: missing name")
	}
	if len(f.Keys) == 0 {
		return fmt.Errorf("layout %q: no keys", f.Name)
	}
	for i, k := range f.Keys {
		if k.ID == "" {
			return fmt.Errorf("layout %q: key %d has no id", f.Name, i)
		}
		if k.Width <= 0 || k.Height <= 0 {
			return fmt.Errorf("layout %q: key %q has non-positive size", f.Name, k.ID)
		}
	}
	return nil
}
