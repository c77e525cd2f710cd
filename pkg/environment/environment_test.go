package environment_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/usernotify/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  environment.Environment
	}{
		{input: "production", want: environment.Production},
		{input: "PROD", want: environment.Production},
		{input: " stage ", want: environment.Staging},
		{input: "dev", want: environment.Development},
		{input: "test", want: environment.Testing},
		{input: "custom", want: environment.Environment("custom")},
		{input: "", want: environment.Environment("")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, environment.Parse(tt.input))
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := environment.WithContext(context.Background(), environment.Staging)
		assert.Equal(t, environment.Staging, environment.FromContext(ctx))
		assert.False(t, environment.IsProduction(ctx))
		assert.True(t, environment.IsProduction(environment.WithContext(ctx, "prod")))
	})

	t.Run("missing environment", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		assert.Empty(t, environment.FromContext(ctx))
		assert.False(t, environment.IsProduction(ctx))
	})

	t.Run("nil context", func(t *testing.T) {
		t.Parallel()
		//nolint:staticcheck // nil context is handled explicitly
		assert.Empty(t, environment.FromContext(nil))
	})

	t.Run("short alias counts as production", func(t *testing.T) {
		t.Parallel()
		ctx := environment.WithContext(context.Background(), environment.Environment("prod"))
		assert.True(t, environment.IsProduction(ctx))
	})
}

func TestIs(t *testing.T) {
	t.Parallel()

	gate := environment.Is(environment.Environment("prod"), environment.Production)
	assert.True(t, gate(context.Background()))

	gate = environment.Is(environment.Staging, environment.Production, environment.Testing)
	assert.False(t, gate(context.Background()))

	gate = environment.Is(environment.Testing, environment.Production, environment.Testing)
	assert.True(t, gate(context.Background()))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := environment.LoggerExtractor()

	attr, ok := extract(environment.WithContext(context.Background(), environment.Production))
	assert.True(t, ok)
	assert.Equal(t, "env", attr.Key)
	assert.Equal(t, "production", attr.Value.String())

	attr, ok = extract(context.Background())
	assert.False(t, ok)
	assert.True(t, attr.Equal(slog.Attr{}))
}
