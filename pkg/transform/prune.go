package transform

import (
	"regexp"
	"strings"
)

// tagPattern matches a bare opening or closing tag. Attributes are not
// allowed, whitespace inside the brackets is.
// Submatches: 1=slash, 2=element name.
var tagPattern = regexp.MustCompile(`<\s*(/?)\s*([A-Za-z][A-Za-z0-9-]*)\s*>`)

// Ready-made pruning stages for the inline elements editors leave behind.
var (
	RemoveEmptyEmphasisElements  = PruneEmptyElement("em")
	RemoveEmptyParagraphElements = PruneEmptyElement("p")
	RemoveEmptyStrongElements    = PruneEmptyElement("strong")
)

// PruneEmptyElement returns a Transform that prunes empty occurrences of
// the named element. See PruneEmpty.
func PruneEmptyElement(name string) Transform {
	if !ValidElementName(name) {
		return Identity
	}
	return func(s string) string {
		return PruneEmpty(name, s)
	}
}

// PruneEmptyCounted is PruneEmptyElement reporting the number of elements
// removed.
func PruneEmptyCounted(name string) Counted {
	if !ValidElementName(name) {
		return uncounted
	}
	return func(s string) (string, int) {
		return PruneEmptyCount(name, s)
	}
}

// PruneEmpty removes every empty occurrence of the named element from
// text. An occurrence is empty when nothing sits between its tags, or
// when everything between them is itself an empty occurrence of the same
// element. Whitespace and other elements count as content, so
// "<em> </em>" and "<em><b></b></em>" are kept.
//
// Tag names match case-insensitively and may be padded with whitespace
// ("< EM >"). Opening tags with attributes are treated as content.
// Unmatched closing tags are left where they are, as are unclosed opening
// tags.
func PruneEmpty(name, text string) string {
	out, _ := PruneEmptyCount(name, text)
	return out
}

// frame is an opening tag awaiting its closing tag.
type frame struct {
	offset int  // position of the opening tag in the output
	filled bool // content other than removed children seen
}

// PruneEmptyCount is PruneEmpty but also reports how many elements were
// removed.
func PruneEmptyCount(name, text string) (string, int) {
	if text == "" || !ValidElementName(name) {
		return text, 0
	}

	total := 0
	for {
		out, removed := pruneScan(name, text)
		if removed == 0 {
			return text, total
		}
		total += removed
		text = out
	}
}

// pruneScan makes one left-to-right pass over text. Opening tags push a
// frame, closing tags pop the innermost one; a popped frame that saw no
// content is cut from the output together with everything written since
// its opening tag, which can only be removed children. Nesting depth costs
// nothing extra. Another pass is only productive when a cut joins two
// fragments into a new tag, as in "<<em></em>em></em>".
func pruneScan(name, text string) (string, int) {
	tags := tagPattern.FindAllStringSubmatchIndex(text, -1)
	if len(tags) == 0 {
		return text, 0
	}

	out := make([]byte, 0, len(text))
	var stack []frame
	removed := 0
	last := 0

	for _, m := range tags {
		if !strings.EqualFold(text[m[4]:m[5]], name) {
			// Other elements are content, picked up with the next gap.
			continue
		}

		if gap := text[last:m[0]]; gap != "" {
			out = append(out, gap...)
			if len(stack) > 0 {
				stack[len(stack)-1].filled = true
			}
		}
		last = m[1]
		tag := text[m[0]:m[1]]

		if m[3] == m[2] {
			stack = append(stack, frame{offset: len(out)})
			out = append(out, tag...)
			continue
		}

		if len(stack) == 0 {
			out = append(out, tag...)
			continue
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !top.filled {
			out = out[:top.offset]
			removed++
			continue
		}

		out = append(out, tag...)
		if len(stack) > 0 {
			stack[len(stack)-1].filled = true
		}
	}

	if removed == 0 {
		return text, 0
	}

	out = append(out, text[last:]...)
	return string(out), removed
}

// PruneEmptyPasses returns a Transform with the same result as
// PruneEmptyElement, computed by repeated passes: each pass deletes every
// opening tag immediately followed by its closing tag, and passes repeat
// until one deletes nothing. It takes one pass per nesting level and is
// kept for callers that want that behaviour spelled out.
func PruneEmptyPasses(name string) Transform {
	if !ValidElementName(name) {
		return Identity
	}
	n := foldASCII(name)
	pair := regexp.MustCompile(`<\s*` + n + `\s*><\s*/\s*` + n + `\s*>`)
	return FixedPoint(func(s string) string {
		return pair.ReplaceAllLiteralString(s, "")
	})
}

// foldASCII builds a case-insensitive pattern for an ASCII name. (?i) is
// avoided because it also folds non-ASCII runes such as the Kelvin sign.
func foldASCII(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteString("[" + string(r) + string(r-'a'+'A') + "]")
		case r >= 'A' && r <= 'Z':
			sb.WriteString("[" + string(r-'A'+'a') + string(r) + "]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return sb.String()
}
