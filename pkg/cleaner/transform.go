package cleaner

import "github.com/jmylchreest/tidyedit/pkg/transform"

// TransformCleaner adapts a pure transform to the Cleaner interface.
type TransformCleaner struct {
	name string
	fn   transform.Transform
}

// NewTransform wraps fn as a Cleaner reporting the given name.
// A nil fn behaves like NewNoop.
func NewTransform(name string, fn transform.Transform) *TransformCleaner {
	if fn == nil {
		fn = transform.Identity
	}
	return &TransformCleaner{name: name, fn: fn}
}

// NewEditable returns the standard contenteditable pipeline as a Cleaner.
func NewEditable() *TransformCleaner {
	return NewTransform("editable", transform.Editable())
}

// Clean applies the transform. It never fails.
func (c *TransformCleaner) Clean(html string) (string, error) {
	return c.fn(html), nil
}

// Name returns the configured name.
func (c *TransformCleaner) Name() string {
	return c.name
}
