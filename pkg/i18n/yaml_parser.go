package i18n

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLParser reads YAML files whose top level keys are language codes.
type YAMLParser struct{}

func NewYAMLParser() *YAMLParser { return &YAMLParser{} }

// Parse implements Parser.
func (p *YAMLParser) Parse(ctx context.Context, content []byte) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingCancelled, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParse, err)
	}
	return byLanguage(data)
}

// SupportsFileExtension implements Parser.
func (p *YAMLParser) SupportsFileExtension(ext string) bool {
	return matchExt(ext, "yaml", "yml")
}

func byLanguage(data map[string]any) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(data))
	for lang, v := range data {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q must map keys to messages, got %T", ErrFailedToParse, lang, v)
		}
		out[lang] = m
	}
	return out, nil
}
