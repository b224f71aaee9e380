package glytrait

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// delimiters that a feature table or trait table may use. Anything else
// the detector proposes is ignored.
var knownDelimiters = map[rune]struct{}{
	',':  {},
	'\t': {},
	';':  {},
}

// DetermineDelimiter returns the single most likely rune that delimits the
// values in a CSV-like sample of a file. If nothing sensible is detected,
// fallback is returned.
func DetermineDelimiter(sample []byte, fallback rune) rune {
	d := detector.New()
	candidates := d.DetectDelimiter(bytes.NewReader(sample), '"')

	for _, c := range candidates {
		if c == "" {
			continue
		}
		r := rune(c[0])
		if _, ok := knownDelimiters[r]; ok {
			return r
		}
	}

	return fallback
}
