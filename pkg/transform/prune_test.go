package transform

import (
	"strings"
	"testing"
)

// pruneCases are shared by the strategy agreement and idempotence tests.
var pruneCases = []string{
	"",
	"plain text",
	"<em>foo</em>",
	"<em> </em>",
	"<em></em>",
	"<EM></EM>",
	"<em></em><EM></EM><em></em>",
	"<em><em><em><em></em></em></em></em>",
	"<em><em>foo</em></em>",
	"<em><em></em> </em>",
	"<em>a<em></em>b</em>",
	"<em><b></b></em>",
	`<em class="x"></em>`,
	"</em><em></em>",
	"<em><em></em>",
	"<em><div></em></div>",
	"< em >< / EM >",
	"<em>\n</em>",
	"<emx></emx>",
	"<p><em></em></p>",
	"<<em></em>em></em>",
	"<em><em></em><em></em></em>x<em><em>y</em></em>",
}

func TestPruneEmpty_Emphasis(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"text content kept", "<em>foo</em>", "<em>foo</em>"},
		{"single space kept", "<em> </em>", "<em> </em>"},
		{"empty removed", "<em></em>", ""},
		{"case-insensitive", "<EM></EM>", ""},
		{"mixed case pair", "<Em></eM>", ""},
		{"all empty removed", "<em></em><EM></EM><em></em>", ""},
		{"nested empty removed", "<em><em><em><em></em></em></em></em>", ""},
		{"nested non-empty kept", "<em><em>foo</em></em>", "<em><em>foo</em></em>"},
		{"whitespace in brackets", "< em >< / EM >", ""},
		{"whitespace left after child removal", "<em><em></em> </em>", "<em> </em>"},
		{"empty child inside text", "<em>a<em></em>b</em>", "<em>ab</em>"},
		{"siblings of empties", "<em><em></em><em></em></em>", ""},
		{"other element is content", "<em><b></b></em>", "<em><b></b></em>"},
		{"attributes are content", `<em class="x"></em>`, `<em class="x"></em>`},
		{"unmatched closing tag kept", "</em><em></em>", "</em>"},
		{"unclosed opening tag kept", "<em><em></em>", "<em>"},
		{"interleaved markup kept", "<em><div></em></div>", "<em><div></em></div>"},
		{"newline is content", "<em>\n</em>", "<em>\n</em>"},
		{"longer element names untouched", "<emx></emx>", "<emx></emx>"},
		{"surrounding text kept", "a<em></em>b", "ab"},
		{"tag formed by a removal", "<<em></em>em></em>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PruneEmpty("em", tt.input); got != tt.want {
				t.Errorf("PruneEmpty(em, %q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPruneEmpty_ReadyMadeStages(t *testing.T) {
	stages := []struct {
		element string
		prune   Transform
	}{
		{"em", RemoveEmptyEmphasisElements},
		{"p", RemoveEmptyParagraphElements},
		{"strong", RemoveEmptyStrongElements},
	}

	for _, st := range stages {
		openTag, closeTag := "<"+st.element+">", "</"+st.element+">"
		upper := strings.ToUpper(openTag) + strings.ToUpper(closeTag)

		tests := []struct {
			name  string
			input string
			want  string
		}{
			{"text kept", openTag + "foo" + closeTag, openTag + "foo" + closeTag},
			{"space kept", openTag + " " + closeTag, openTag + " " + closeTag},
			{"empty removed", openTag + closeTag, ""},
			{"case-insensitive", upper, ""},
			{"repeated removed", openTag + closeTag + upper + openTag + closeTag, ""},
			{"nested removed", strings.Repeat(openTag, 4) + strings.Repeat(closeTag, 4), ""},
			{"nested non-empty kept", openTag + openTag + "foo" + closeTag + closeTag, openTag + openTag + "foo" + closeTag + closeTag},
		}

		for _, tt := range tests {
			t.Run(st.element+"/"+tt.name, func(t *testing.T) {
				if got := st.prune(tt.input); got != tt.want {
					t.Errorf("%s prune(%q) = %q, want %q", st.element, tt.input, got, tt.want)
				}
			})
		}
	}
}

func TestPruneEmpty_OnlyTargetElement(t *testing.T) {
	input := "<p><em></em></p>"

	if got := PruneEmpty("p", input); got != input {
		t.Errorf("PruneEmpty(p) = %q, want %q", got, input)
	}
	if got := PruneEmpty("em", input); got != "<p></p>" {
		t.Errorf("PruneEmpty(em) = %q, want %q", got, "<p></p>")
	}
	if got := Compose(input)(RemoveEmptyEmphasisElements, RemoveEmptyParagraphElements); got != "" {
		t.Errorf("em then p = %q, want empty", got)
	}
}

func TestPruneEmpty_DepthInvariance(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 100, 5000} {
		input := strings.Repeat("<em>", n) + strings.Repeat("</em>", n)
		if got := PruneEmpty("em", input); got != "" {
			t.Errorf("depth %d: PruneEmpty() = %q, want empty", n, got)
		}
	}
}

func TestPruneEmpty_DeepNonEmptyPreserved(t *testing.T) {
	input := strings.Repeat("<strong>", 200) + "foo" + strings.Repeat("</strong>", 200)
	if got := PruneEmpty("strong", input); got != input {
		t.Error("PruneEmpty() modified a chain with non-empty content")
	}
}

func TestPruneEmpty_InvalidName(t *testing.T) {
	input := "<em></em>"
	for _, name := range []string{"", "e m", "em>", "*"} {
		if got := PruneEmpty(name, input); got != input {
			t.Errorf("PruneEmpty(%q) = %q, want input unchanged", name, got)
		}
	}
}

func TestPruneEmptyCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		removed int
	}{
		{"nothing to remove", "<em>x</em>", "<em>x</em>", 0},
		{"nested and siblings", "<em><em></em></em><em>x</em><em></em>", "<em>x</em>", 3},
		{"across passes", "<<em></em>em></em>", "", 2},
		{"no tags", "text", "text", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := PruneEmptyCount("em", tt.input)
			if got != tt.want {
				t.Errorf("PruneEmptyCount() = %q, want %q", got, tt.want)
			}
			if removed != tt.removed {
				t.Errorf("PruneEmptyCount() removed = %d, want %d", removed, tt.removed)
			}
		})
	}
}

func TestPruneEmpty_Idempotent(t *testing.T) {
	for _, input := range pruneCases {
		once := PruneEmpty("em", input)
		if twice := PruneEmpty("em", once); twice != once {
			t.Errorf("PruneEmpty not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestPruneEmptyPasses_MatchesPruneEmpty(t *testing.T) {
	passes := PruneEmptyPasses("em")
	for _, input := range pruneCases {
		if got, want := passes(input), PruneEmpty("em", input); got != want {
			t.Errorf("PruneEmptyPasses(%q) = %q, PruneEmpty = %q", input, got, want)
		}
	}
}

func FuzzPruneEmpty(f *testing.F) {
	for _, seed := range pruneCases {
		f.Add(seed)
	}

	passes := PruneEmptyPasses("em")
	f.Fuzz(func(t *testing.T, input string) {
		once := PruneEmpty("em", input)
		if twice := PruneEmpty("em", once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", input, once, twice)
		}
		if len(once) > len(input) {
			t.Fatalf("output grew: %q -> %q", input, once)
		}
		if got := passes(input); got != once {
			t.Fatalf("strategies disagree on %q: passes %q, scan %q", input, got, once)
		}
	})
}
