// Package transform provides pure string-to-string transforms for tidying
// contenteditable markup, and helpers for composing them into pipelines.
//
// Every function in this package is total over arbitrary input and safe for
// concurrent use. Nothing here parses markup into a tree; element
// boundaries are located by scanning the raw text.
package transform

// Transform maps markup text to new markup text.
type Transform func(string) string

// Counted is a Transform that also reports how many removals it made.
type Counted func(string) (string, int)

// Transform drops the count.
func (c Counted) Transform() Transform {
	return func(s string) string {
		out, _ := c(s)
		return out
	}
}

// Compose returns a function that applies the given transforms to initial
// in order. The first transform receives initial, each later one receives
// the previous result. With no transforms, initial is returned unchanged.
//
// Example:
//
//	out := transform.Compose(html)(
//	    transform.RemoveDivElements,
//	    transform.RemoveBrElements,
//	    transform.RemoveEmptyEmphasisElements,
//	)
func Compose(initial string) func(transforms ...Transform) string {
	return func(transforms ...Transform) string {
		s := initial
		for _, t := range transforms {
			if t == nil {
				continue
			}
			s = t(s)
		}
		return s
	}
}

// Chain combines transforms into a single Transform applied left-to-right.
func Chain(transforms ...Transform) Transform {
	return func(s string) string {
		return Compose(s)(transforms...)
	}
}

// FixedPoint returns a Transform that reapplies t until a pass leaves its
// input unchanged. t must eventually stop changing its input; shrinking
// transforms always do.
func FixedPoint(t Transform) Transform {
	return func(s string) string {
		for {
			next := t(s)
			if next == s {
				return s
			}
			s = next
		}
	}
}

// Identity returns its input unchanged.
func Identity(s string) string {
	return s
}
