package i18n

import (
	"context"
	"path"
	"strings"
)

// Parser decodes a translation file into messages keyed by language.
type Parser interface {
	Parse(ctx context.Context, content []byte) (map[string]map[string]any, error)
	// SupportsFileExtension reports whether files with ext, with or without
	// the leading dot, are handled.
	SupportsFileExtension(ext string) bool
}

// ParserForFile picks a parser by file extension, or nil if none fits.
func ParserForFile(filename string) Parser {
	ext := path.Ext(filename)
	for _, p := range []Parser{NewYAMLParser(), NewJSONParser()} {
		if p.SupportsFileExtension(ext) {
			return p
		}
	}
	return nil
}

func matchExt(ext string, allowed ...string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}
