// Package environment propagates the current application environment
// (development, staging, production, testing) through context.Context and
// structured logs.
//
// The typed string Environment has predefined constants. Values are attached
// to a context with WithContext and extracted with FromContext. Parse accepts the short aliases
// used in deployment manifests ("prod", "stage", "dev", "test").
//
// IsProduction has the signature of a delivery gate and is the default gate
// of the notification router: nothing leaves the process unless the context
// says production. When the environment is fixed at startup, Is builds the
// same kind of predicate from a static value:
//
//	gate := environment.Is(environment.Parse(cfg.Env), environment.Production)
//	router := notify.NewRouter(catalog, prefs, notify.WithDeliveryGate(gate))
//
// LoggerExtractor returns a context extractor for pkg/logger that adds the
// environment to every record.
package environment
