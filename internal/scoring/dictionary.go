// internal/scoring/dictionary.go
package scoring

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed content/dicionario.json
var defaultDictionaryJSON []byte

const dictionarySchema = `{
  "type": "object",
  "required": ["paragraphs"],
  "properties": {
    "paragraphs": {
      "type": "object",
      "additionalProperties": false,
      "patternProperties": {
        "^Q[1-6]$": {
          "type": "object",
          "additionalProperties": false,
          "patternProperties": {
            "^[ABCD]$": {"type": "string"}
          }
        }
      }
    }
  }
}`

// Dictionary maps question and option to a narrative text. It is never
// written after load, so one value can back any number of engines.
type Dictionary map[Question]map[Option]string

type dictionaryDocument struct {
	Paragraphs map[Question]map[Option]string `json:"paragraphs"`
}

// Lookup returns the text for q/o and whether an entry exists.
func (d Dictionary) Lookup(q Question, o Option) (string, bool) {
	byOption, ok := d[q]
	if !ok {
		return "", false
	}
	text, ok := byOption[o]
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// Len counts the entries in the dictionary.
func (d Dictionary) Len() int {
	n := 0
	for _, byOption := range d {
		n += len(byOption)
	}
	return n
}

// ParseDictionary validates data against the dictionary schema and decodes it.
func ParseDictionary(data []byte) (Dictionary, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(dictionarySchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("dictionary validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("invalid dictionary: %v", errs)
	}

	var doc dictionaryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	if doc.Paragraphs == nil {
		return Dictionary{}, nil
	}
	return Dictionary(doc.Paragraphs), nil
}

// LoadDictionary reads and parses a dictionary file.
func LoadDictionary(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return ParseDictionary(data)
}

// DefaultDictionary returns the embedded copywriting.
func DefaultDictionary() Dictionary {
	dict, err := ParseDictionary(defaultDictionaryJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded dictionary is invalid: %v", err))
	}
	return dict
}
