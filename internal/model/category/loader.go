package category

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed data/*.json
var corpusFS embed.FS

const (
	standardCorpus = "data/responses.json"
	cyclingCorpus  = "data/responses_bikes.json"

	defaultSchemaVersion = "1.0"
	schemaURL            = "furby://corpus.schema.json"
)

// corpusSchema pins the on-disk corpus contract. Category objects must carry
// every field, responses must be non-empty and phrases are [furbish, translation].
const corpusSchema = `{
  "type": "object",
  "required": ["categories"],
  "properties": {
    "schema_version": {"type": "string"},
    "categories": {
      "type": "object",
      "required": ["fallback"],
      "additionalProperties": {"$ref": "#/$defs/category"}
    }
  },
  "$defs": {
    "category": {
      "type": "object",
      "required": ["keywords", "responses", "furby_sounds", "furbish_phrases"],
      "properties": {
        "keywords": {"type": "array", "items": {"type": "string"}},
        "responses": {
          "type": "array",
          "minItems": 1,
          "items": {"type": "string", "minLength": 1}
        },
        "furby_sounds": {"type": "array", "items": {"type": "string"}},
        "furbish_phrases": {
          "type": "array",
          "items": {
            "type": "array",
            "minItems": 2,
            "maxItems": 2,
            "items": {"type": "string"}
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString(schemaURL, corpusSchema)

// LoadError describes why a corpus could not be loaded. Startup must abort on
// it since there is no safe default corpus.
type LoadError struct {
	Op   string // read, decode, validate, build
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load corpus %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type rawCategory struct {
	Keywords       []string    `json:"keywords"`
	Responses      []string    `json:"responses"`
	FurbySounds    []string    `json:"furby_sounds"`
	FurbishPhrases [][2]string `json:"furbish_phrases"`
}

// Load reads and validates a corpus document from disk.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Op: "read", Path: path, Err: err}
	}
	return Parse(path, data)
}

// LoadDefault returns one of the corpora compiled into the binary. The
// cycling corpus backs the --bikes theme.
func LoadDefault(cycling bool) (*Table, error) {
	name := standardCorpus
	if cycling {
		name = cyclingCorpus
	}
	data, err := corpusFS.ReadFile(name)
	if err != nil {
		return nil, &LoadError{Op: "read", Path: name, Err: err}
	}
	return Parse(name, data)
}

// Parse validates data against the corpus schema and builds a Table that keeps
// categories in document order. source is only used in error messages.
func Parse(source string, data []byte) (*Table, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Op: "decode", Path: source, Err: err}
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, &LoadError{Op: "validate", Path: source, Err: err}
	}

	var envelope struct {
		SchemaVersion string          `json:"schema_version"`
		Categories    json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &LoadError{Op: "decode", Path: source, Err: err}
	}

	categories, err := decodeOrdered(envelope.Categories)
	if err != nil {
		return nil, &LoadError{Op: "decode", Path: source, Err: err}
	}

	version := strings.TrimSpace(envelope.SchemaVersion)
	if version == "" {
		version = defaultSchemaVersion
	}

	table, err := NewTable(version, categories)
	if err != nil {
		return nil, &LoadError{Op: "build", Path: source, Err: err}
	}
	return table, nil
}

// decodeOrdered walks the categories object token by token so the resulting
// slice keeps the key order of the document; tie-breaking in the matcher
// depends on it.
func decodeOrdered(raw json.RawMessage) ([]Category, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("categories must be an object")
	}

	var out []Category
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", keyTok)
		}

		var rc rawCategory
		if err := dec.Decode(&rc); err != nil {
			return nil, fmt.Errorf("category %s: %w", name, err)
		}

		phrases := make([]Phrase, 0, len(rc.FurbishPhrases))
		for _, p := range rc.FurbishPhrases {
			phrases = append(phrases, Phrase{Furbish: p[0], Translation: p[1]})
		}

		out = append(out, Category{
			Name:         name,
			Keywords:     rc.Keywords,
			Responses:    rc.Responses,
			SoundEffects: rc.FurbySounds,
			Phrases:      phrases,
		})
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return out, nil
}
