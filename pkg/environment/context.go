package environment

import (
	"context"
	"strings"
)

// Environment represents application environment.
type Environment string

const (
	// Development for development environment.
	Development Environment = "development"
	// Production for production environment.
	Production Environment = "production"
	// Staging for staging environment.
	Staging Environment = "staging"
	// Testing for automated test runs.
	Testing Environment = "testing"
)

// Parse normalizes an environment name, accepting the short aliases
// "prod", "stage", "dev" and "test". Unknown names are returned as is.
func Parse(name string) Environment {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	case "development", "dev":
		return Development
	case "testing", "test":
		return Testing
	default:
		return Environment(n)
	}
}

type contextKey struct{}

// WithContext adds environment to context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

// IsProduction checks if the environment from context is production.
func IsProduction(ctx context.Context) bool {
	return Parse(string(FromContext(ctx))) == Production
}

// Is returns a predicate that ignores the context and reports whether env is
// one of the given environments. Use it where the environment is fixed at
// startup instead of carried by the request context.
func Is(env Environment, allowed ...Environment) func(context.Context) bool {
	current := Parse(string(env))
	return func(context.Context) bool {
		for _, a := range allowed {
			if current == Parse(string(a)) {
				return true
			}
		}
		return false
	}
}
