package i18n

import (
	"context"
	"encoding/json"
	"errors"
)

// JSONParser reads JSON files whose top level keys are language codes.
type JSONParser struct{}

func NewJSONParser() *JSONParser { return &JSONParser{} }

// Parse implements Parser.
func (p *JSONParser) Parse(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParse, err)
	}
	return byLanguage(data)
}

// SupportsFileExtension implements Parser.
func (p *JSONParser) SupportsFileExtension(ext string) bool {
	return matchExt(ext, "json")
}
