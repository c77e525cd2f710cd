package i18n_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/i18n"
)

func TestFSAdapter(t *testing.T) {
	t.Parallel()

	t.Run("merges supported files in name order", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"locales/a.yaml":     {Data: []byte("en:\n  hello: Hello\n  bye: Bye\n")},
			"locales/b.yml":      {Data: []byte("en:\n  hello: Hi\nde:\n  hello: Hallo\n")},
			"locales/notes.txt":  {Data: []byte("ignored")},
			"locales/sub/c.yaml": {Data: []byte("en:\n  hello: Nested\n")},
		}

		tr, err := i18n.NewTranslator(context.Background(), i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "locales"))
		require.NoError(t, err)
		assert.Equal(t, "Hi", tr.T("en", "hello"))
		assert.Equal(t, "Bye", tr.T("en", "bye"))
		assert.Equal(t, "Hallo", tr.T("de", "hello"))
	})

	t.Run("no supported files", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{"locales/x.json": {Data: []byte(`{}`)}}
		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "locales").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrNoTranslationFiles)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fstest.MapFS{}, "nope").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrFailedToRead)
	})

	t.Run("invalid file", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{"l/bad.yaml": {Data: []byte("en: [unclosed")}}
		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "l").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrFailedToParse)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fsys := fstest.MapFS{"l/a.yaml": {Data: []byte("en:\n  a: b\n")}}
		_, err := i18n.NewFSAdapter(i18n.NewYAMLParser(), fsys, "l").Load(ctx)
		assert.ErrorIs(t, err, i18n.ErrLoadingCancelled)
	})

	t.Run("nil parser", func(t *testing.T) {
		t.Parallel()

		_, err := i18n.NewFSAdapter(nil, fstest.MapFS{}, "").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrNilParser)
	})
}

func TestDirectoryAdapter(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewTranslator(context.Background(), i18n.NewDirectoryAdapter(i18n.NewYAMLParser(), "testdata"))
	require.NoError(t, err)
	assert.Equal(t, "Willkommen, Ann", tr.T("de-AT", "notifications.welcome.subject", "name", "Ann"))
	assert.Equal(t, "2 new items", tr.N("en", "notifications.items", 2))
}

func TestFileAdapter(t *testing.T) {
	t.Parallel()

	t.Run("parser from extension", func(t *testing.T) {
		t.Parallel()

		tr, err := i18n.NewTranslator(context.Background(), i18n.NewFileAdapter(nil, "testdata/extra.json"))
		require.NoError(t, err)
		assert.Equal(t, "Bem-vindo, Ana", tr.T("pt", "notifications.welcome.subject", "name", "Ana"))
	})

	t.Run("unknown extension", func(t *testing.T) {
		t.Parallel()

		_, err := i18n.NewFileAdapter(nil, "testdata/notes.txt").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrNilParser)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := i18n.NewFileAdapter(i18n.NewYAMLParser(), "testdata/missing.yaml").Load(context.Background())
		assert.ErrorIs(t, err, i18n.ErrFailedToRead)
	})
}

func TestParsers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		parser  i18n.Parser
		content string
		wantErr bool
	}{
		{name: "yaml", parser: i18n.NewYAMLParser(), content: "en:\n  a: b\n"},
		{name: "yaml scalar language", parser: i18n.NewYAMLParser(), content: "en: nope\n", wantErr: true},
		{name: "json", parser: i18n.NewJSONParser(), content: `{"en": {"a": "b"}}`},
		{name: "json invalid", parser: i18n.NewJSONParser(), content: `{"en": `, wantErr: true},
		{name: "json scalar language", parser: i18n.NewJSONParser(), content: `{"en": 1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.parser.Parse(context.Background(), []byte(tt.content))
			if tt.wantErr {
				assert.ErrorIs(t, err, i18n.ErrFailedToParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "b", got["en"]["a"])
		})
	}

	assert.NotNil(t, i18n.ParserForFile("a.YML"))
	assert.NotNil(t, i18n.ParserForFile("dir/a.json"))
	assert.Nil(t, i18n.ParserForFile("a.toml"))
	assert.True(t, i18n.NewJSONParser().SupportsFileExtension(".JSON"))
}
