package transform

import (
	"regexp"
	"strings"
)

var (
	// elementNamePattern matches the element names the transforms accept.
	elementNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

	// referenceNamePattern matches named character reference names.
	referenceNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
)

// Ready-made stages for contenteditable innerHTML.
var (
	// RemoveDivElements strips <div> and </div> tags, keeping their content.
	RemoveDivElements = StripContainerTag("div")

	// RemoveBrElements removes every <br> variant.
	RemoveBrElements = StripVoidTag("br")

	// RemoveNonBreakingSpaces removes &nbsp; but not &#160; or &#xA0;.
	RemoveNonBreakingSpaces = RemoveNamedReference("nbsp")
)

// ValidElementName reports whether name can be used as an element name by
// the transforms in this package.
func ValidElementName(name string) bool {
	return elementNamePattern.MatchString(name)
}

// ValidReferenceName reports whether name is usable as a named character
// reference, with or without the surrounding & and ;.
func ValidReferenceName(name string) bool {
	return referenceNamePattern.MatchString(trimReference(name))
}

// StripContainerTag returns a Transform that removes every opening and
// closing tag of the named element and leaves the content in place.
// Matching is case-insensitive and tolerates whitespace inside the
// brackets. Opening tags may carry attributes. The element name appearing
// outside angle brackets is left alone.
func StripContainerTag(name string) Transform {
	return StripContainerTagCounted(name).Transform()
}

// StripContainerTagCounted is StripContainerTag reporting the number of
// tags removed.
func StripContainerTagCounted(name string) Counted {
	if !ValidElementName(name) {
		return uncounted
	}
	return removeAll(regexp.MustCompile(`(?i)<\s*/?\s*` + regexp.QuoteMeta(name) + `(?:\s[^<>]*)?>`))
}

// StripVoidTag returns a Transform that removes every occurrence of the
// named void element: with or without a trailing slash, with or without
// whitespace inside the brackets, and the stray </name> form browsers
// treat the same way.
func StripVoidTag(name string) Transform {
	return StripVoidTagCounted(name).Transform()
}

// StripVoidTagCounted is StripVoidTag reporting the number of tags removed.
func StripVoidTagCounted(name string) Counted {
	if !ValidElementName(name) {
		return uncounted
	}
	return removeAll(regexp.MustCompile(`(?i)<\s*/?\s*` + regexp.QuoteMeta(name) + `(?:\s[^<>]*)?/?\s*>`))
}

// RemoveNamedReference returns a Transform that removes every literal
// &name; reference. Only the fully delimited form is removed and matching
// is case-sensitive, so numeric references to the same character survive.
func RemoveNamedReference(name string) Transform {
	return RemoveNamedReferenceCounted(name).Transform()
}

// RemoveNamedReferenceCounted is RemoveNamedReference reporting the number
// of references removed.
func RemoveNamedReferenceCounted(name string) Counted {
	name = trimReference(name)
	if !referenceNamePattern.MatchString(name) {
		return uncounted
	}
	ref := "&" + name + ";"
	return func(s string) (string, int) {
		n := strings.Count(s, ref)
		if n == 0 {
			return s, 0
		}
		return strings.ReplaceAll(s, ref, ""), n
	}
}

// removeAll deletes every match of pattern.
func removeAll(pattern *regexp.Regexp) Counted {
	return func(s string) (string, int) {
		n := len(pattern.FindAllStringIndex(s, -1))
		if n == 0 {
			return s, 0
		}
		return pattern.ReplaceAllLiteralString(s, ""), n
	}
}

func uncounted(s string) (string, int) {
	return s, 0
}

func trimReference(name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(name, "&"), ";")
}
