// Package glycan holds the sample-independent structural annotation of each
// glycan structure and the per-sample relative abundance matrix that trait
// formulas are evaluated against.
package glycan

// Feature identifies one of the integer structural counts recorded for every
// glycan structure.
type Feature uint8

const (
	FeatureInvalid Feature = iota
	Branches               // nN: number of antennae
	Fucose                 // nF
	Galactose              // nG
	Sialic                 // nS: total sialic acids
	SialicA23              // nL: alpha-2,3 linked sialic acids
	SialicA26              // nE: alpha-2,6 linked sialic acids
)

var featureCodes = [...]string{
	FeatureInvalid: "",
	Branches:       "nN",
	Fucose:         "nF",
	Galactose:      "nG",
	Sialic:         "nS",
	SialicA23:      "nL",
	SialicA26:      "nE",
}

// Features returns the six known features in canonical order.
func Features() []Feature {
	return []Feature{Branches, Fucose, Galactose, Sialic, SialicA23, SialicA26}
}

// ParseFeature maps a short code such as "nN" to its Feature.
func ParseFeature(code string) (Feature, bool) {
	for f, c := range featureCodes {
		if f != int(FeatureInvalid) && c == code {
			return Feature(f), true
		}
	}
	return FeatureInvalid, false
}

func (f Feature) Valid() bool {
	return f > FeatureInvalid && int(f) < len(featureCodes)
}

// Linkage reports whether the feature depends on sialic acid linkage
// annotation, which not every input carries.
func (f Feature) Linkage() bool {
	return f == SialicA23 || f == SialicA26
}

func (f Feature) String() string {
	if !f.Valid() {
		return "invalid"
	}
	return featureCodes[f]
}
