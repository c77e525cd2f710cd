package opensearch

import "errors"

var (
	// ErrNoAddresses is returned by New when Config.Addresses is empty.
	ErrNoAddresses = errors.New("opensearch addresses are not configured")

	// ErrConnectionFailed indicates the client could not be created.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	// ErrHealthcheckFailed indicates the cluster is unreachable or unhealthy.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")
)
