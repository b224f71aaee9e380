// Package tableio reads glycan feature tables and writes trait tables. It is
// the file-facing side of glytrait; nothing in here computes traits.
package tableio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carbocation/glytrait/glycan"
)

// Layout names the columns of a feature table. Identity lists the accepted
// names of the structure identity column, in order of preference.
type Layout struct {
	Identity []string
	Columns  map[glycan.Feature]string
}

var Layouts = map[string]Layout{
	"DEFAULT": {
		Identity: []string{"Structure", "Composition", "Glycan"},
		Columns: map[glycan.Feature]string{
			glycan.Branches:  "nN",
			glycan.Fucose:    "nF",
			glycan.Galactose: "nG",
			glycan.Sialic:    "nS",
			glycan.SialicA23: "nL",
			glycan.SialicA26: "nE",
		},
	},
	// Meta-property column names written by the Python glytrait package.
	"GLYTRAIT": {
		Identity: []string{"Composition", "Structure", "Glycan"},
		Columns: map[glycan.Feature]string{
			glycan.Branches:  "totalAntenna",
			glycan.Fucose:    "totalFuc",
			glycan.Galactose: "totalGal",
			glycan.Sialic:    "totalSia",
			glycan.SialicA23: "a23Sia",
			glycan.SialicA26: "a26Sia",
		},
	},
}

// LayoutNames lists the registered layouts, sorted.
func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// LookupLayout returns the named layout.
func LookupLayout(name string) (Layout, error) {
	l, exists := Layouts[name]
	if !exists {
		return Layout{}, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", name, LayoutNames())
	}
	return l, nil
}

// column classifies one header cell: the identity column, a feature column,
// or (feature == FeatureInvalid and !identity) a sample.
func (l Layout) column(header string) (identity bool, feature glycan.Feature) {
	h := strings.TrimSpace(header)
	for _, id := range l.Identity {
		if strings.EqualFold(h, id) {
			return true, glycan.FeatureInvalid
		}
	}
	for f, name := range l.Columns {
		if h == name {
			return false, f
		}
	}
	return false, glycan.FeatureInvalid
}
