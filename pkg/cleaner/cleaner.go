// Package cleaner provides stages that tidy editor markup and can fail.
// Pure transforms from the transform package are adapted with
// NewTransform; stages that parse or convert markup report errors.
package cleaner

// Cleaner transforms markup into a tidier form.
type Cleaner interface {
	// Clean transforms the input markup. Implementations must not keep
	// state between calls.
	Clean(html string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
