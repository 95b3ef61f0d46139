package retrieval

import "errors"

var (
	// ErrQueryServiceRequired is returned when a Service is constructed
	// without a query service.
	ErrQueryServiceRequired = errors.New("query service is required")

	// ErrProviderRequired is returned when a Service is constructed without
	// an AI provider.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrEmptyQuery is returned when Ask is called with a blank query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrUnroutableQuery is returned when the router produces a route with
	// no action.
	ErrUnroutableQuery = errors.New("query could not be routed")
)
