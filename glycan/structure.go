package glycan

// Structure is one glycan structure reduced to its feature counts. Structures
// are created once by the annotation step and never modified afterwards.
//
// S == L + E is expected but deliberately not enforced, since upstream
// annotation may leave linkage unresolved.
type Structure struct {
	ID string

	N int // nN
	F int // nF
	G int // nG
	S int // nS
	L int // nL
	E int // nE
}

// Count returns the structure's value for feature f. Invalid features count as
// zero; formulas are validated before evaluation so this does not occur in
// practice.
func (s Structure) Count(f Feature) int {
	switch f {
	case Branches:
		return s.N
	case Fucose:
		return s.F
	case Galactose:
		return s.G
	case Sialic:
		return s.S
	case SialicA23:
		return s.L
	case SialicA26:
		return s.E
	}
	return 0
}
