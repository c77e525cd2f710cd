package i18n

import "errors"

var (
	ErrNilAdapter           = errors.New("i18n: adapter is nil")
	ErrNilParser            = errors.New("i18n: parser is nil")
	ErrEmptyLanguage        = errors.New("i18n: empty language code")
	ErrLanguageNotSupported = errors.New("i18n: language not supported")
	ErrLoadingCancelled     = errors.New("i18n: loading translations cancelled")
	ErrFailedToRead         = errors.New("i18n: failed to read translation source")
	ErrFailedToParse        = errors.New("i18n: failed to parse translations")
	ErrNoTranslationFiles   = errors.New("i18n: no translation files found")
)
