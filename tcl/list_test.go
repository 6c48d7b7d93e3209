package tcl

import "testing"

func TestParseListBasic(t *testing.T) {
	testCases := []struct {
		in   string
		want []string
	}{
		{"a b c", []string{"a", "b", "c"}},
		{"  a   b  ", []string{"a", "b"}},
		{"{a b} c", []string{"a b", "c"}},
		{`"a b" c`, []string{"a b", "c"}},
		{"{}", []string{""}},
		{"a {b {c d}} e", []string{"a", "b {c d}", "e"}},
		{`a\ b c`, []string{"a b", "c"}},
	}
	for _, tc := range testCases {
		got, err := ParseList(tc.in)
		if err != nil {
			t.Errorf("ParseList(%q) error: %v", tc.in, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tc.in, ValuesToStrings(got), tc.want)
			continue
		}
		for i, v := range got {
			if v.String() != tc.want[i] {
				t.Errorf("ParseList(%q)[%d] = %q, want %q", tc.in, i, v.String(), tc.want[i])
			}
		}
	}
}

func TestListCodecIdempotence(t *testing.T) {
	inputs := []string{
		"a b c",
		"{a b} c d",
		`a "quoted string" c`,
		"",
		"{}",
		"a {nested {deeply {value}}} z",
		"weird\\ element here",
		"has$dollar and[bracket]",
	}
	for _, in := range inputs {
		first, err := ParseList(in)
		if err != nil {
			t.Errorf("ParseList(%q) error: %v", in, err)
			continue
		}
		formatted := FormatList(first)
		second, err := ParseList(formatted)
		if err != nil {
			t.Errorf("ParseList(FormatList(ParseList(%q))) error: %v", in, err)
			continue
		}
		if len(first) != len(second) {
			t.Fatalf("element count changed for %q: %d vs %d", in, len(first), len(second))
		}
		for i := range first {
			if first[i].String() != second[i].String() {
				t.Errorf("round-trip mismatch for %q at %d: %q vs %q", in, i, first[i].String(), second[i].String())
			}
		}
	}
}

func TestFormatListEmptyElement(t *testing.T) {
	got := FormatList([]Value{NewValue("")})
	if got != "{}" {
		t.Errorf("got %q, want {}", got)
	}
}

func TestFormatListRoundTripsSpecialChars(t *testing.T) {
	elems := []Value{NewValue("a b"), NewValue("c{d"), NewValue("e$f"), NewValue("")}
	formatted := FormatList(elems)
	parsed, err := ParseList(formatted)
	if err != nil {
		t.Fatalf("ParseList(%q) error: %v", formatted, err)
	}
	if len(parsed) != len(elems) {
		t.Fatalf("got %d elements, want %d", len(parsed), len(elems))
	}
	for i, e := range elems {
		if parsed[i].String() != e.String() {
			t.Errorf("element %d: got %q, want %q", i, parsed[i].String(), e.String())
		}
	}
}

func TestScanBraceElementUnmatched(t *testing.T) {
	_, err := ParseList("{a b")
	if err == nil {
		t.Error("expected error for unmatched brace")
	}
}
