package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/antbot-go/internal/domain/world"
)

//go:embed snapshot.schema.json
var schemaSource string

const schemaURL = "https://antbot.local/schemas/snapshot.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = jsonschema.CompileString(schemaURL, schemaSource)
	})
	return compiled, compileErr
}

// DecodeJSON validates data against the snapshot schema and converts it.
// Structural errors reject the whole snapshot; semantically bad records (an
// unknown unit type, say) pass here and are dropped later by Sanitize.
func DecodeJSON(data []byte) (*world.Snapshot, error) {
	dto, err := decodeDTO(data)
	if err != nil {
		return nil, err
	}
	return dto.ToDomain(), nil
}

func decodeDTO(data []byte) (*SnapshotDTO, error) {
	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile snapshot schema: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("snapshot does not match schema: %w", err)
	}

	var dto SnapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &dto, nil
}

// DecodeYAML reads a YAML snapshot. It is re-encoded as JSON so the same
// schema applies.
func DecodeYAML(data []byte) (*world.Snapshot, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot yaml: %w", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert snapshot yaml: %w", err)
	}
	return DecodeJSON(asJSON)
}

// EncodeJSON writes a snapshot in its wire form
func EncodeJSON(s *world.Snapshot) ([]byte, error) {
	return json.Marshal(FromDomain(s))
}

// LoadFile decodes a snapshot file, choosing the format by extension
func LoadFile(path string) (*world.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".json":
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported snapshot file extension %q", filepath.Ext(path))
	}
}
