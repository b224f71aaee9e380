package formula

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultRoundTrip(t *testing.T) {
	formulas, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if len(formulas) == 0 {
		t.Fatal("the built-in set is empty")
	}

	for _, f := range formulas {
		if err := f.Validate(); err != nil {
			t.Errorf("%s: %v", f.Name, err)
		}

		text := f.String()
		reparsed, err := ParseLine(text)
		if err != nil {
			t.Errorf("%s: reparsing %q: %v", f.Name, text, err)
			continue
		}

		if diff := cmp.Diff(f, reparsed, ignorePosition); diff != "" {
			t.Errorf("%s: round trip changed the formula (-want +got):\n%s", f.Name, diff)
		}
		if again := reparsed.String(); again != text {
			t.Errorf("%s: serialization is not stable: %q vs %q", f.Name, text, again)
		}
	}
}

func TestWriteDefaultMatchesDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDefault(&buf); err != nil {
		t.Fatal(err)
	}

	fromWritten, err := Parse(&buf, "written")
	if err != nil {
		t.Fatal(err)
	}
	builtin, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(builtin, fromWritten); diff != "" {
		t.Errorf("written defaults differ (-want +got):\n%s", diff)
	}
}

func TestString(t *testing.T) {
	f, err := ParseLine("HbFS=[nS>0]//[(nN>4)*(nF>0)]")
	if err != nil {
		t.Fatal(err)
	}

	if s, expected := f.String(), "HbFS = [nS > 0] // [(nN > 4) * (nF > 0)]"; s != expected {
		t.Errorf("got %q, expected %q", s, expected)
	}
}
