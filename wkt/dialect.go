package wkt

import "strings"

// Dialect is the guessed flavor of a bracketed definition. Guessing never
// fails: text that does not look like WKT at all maps to DialectNotWKT.
type Dialect int

const (
	DialectNotWKT Dialect = iota
	DialectWKT2_2015
	DialectWKT2_2018
	DialectWKT1GDAL
	DialectWKT1ESRI
)

func (d Dialect) String() string {
	switch d {
	case DialectWKT2_2015:
		return "WKT2_2015"
	case DialectWKT2_2018:
		return "WKT2_2018"
	case DialectWKT1GDAL:
		return "WKT1_GDAL"
	case DialectWKT1ESRI:
		return "WKT1_ESRI"
	default:
		return "NOT_WKT"
	}
}

// legacy root keywords shared by the GDAL and ESRI flavors of WKT1.
var wkt1Roots = []string{
	"GEOGCS", "PROJCS", "GEOCCS", "VERT_CS", "COMPD_CS", "LOCAL_CS",
}

// keywords introduced by the 2018 revision; any hit decides the dialect.
var wkt2_2018Keywords = []string{
	"GEOGCRS[", "BASEGEOGCRS[", "CONCATENATEDOPERATION[", "USAGE[",
	"DYNAMIC[", "FRAMEEPOCH[", "TRIAXIAL[", "GEOIDMODEL[",
	"DERIVEDPROJCRS[", "BASEPROJCRS[",
}

// keywords valid in both WKT2 revisions; a hit without a 2018 marker means
// the 2015 revision.
var wkt2Keywords = []string{
	"GEODCRS[", "GEODETICCRS[", "GEODETICDATUM[", "PROJCRS[",
	"PROJECTEDCRS[", "VERTCRS[", "VERTICALCRS[", "VERTICALDATUM[",
	"COMPOUNDCRS[", "ENGCRS[", "ENGINEERINGCRS[", "BOUNDCRS[",
	"LENGTHUNIT[", "ANGLEUNIT[", "SCALEUNIT[", "TIMECRS[",
}

// esriDatumMarker is the telltale ESRI habit of prefixing datum names.
const esriDatumMarker = `DATUM["D_`

// GuessDialect classifies text by its WKT flavor without parsing it. The
// 2018-only keywords win over the shared WKT2 vocabulary; legacy roots are
// split into ESRI and GDAL flavors by the datum-name marker.
func GuessDialect(text string) Dialect {
	t := strings.TrimSpace(text)
	upper := strings.ToUpper(t)
	for _, kw := range wkt2_2018Keywords {
		if strings.Contains(upper, kw) {
			return DialectWKT2_2018
		}
	}
	for _, kw := range wkt2Keywords {
		if strings.Contains(upper, kw) {
			return DialectWKT2_2015
		}
	}
	for _, root := range wkt1Roots {
		if strings.HasPrefix(upper, root) {
			if strings.Contains(upper, esriDatumMarker) {
				return DialectWKT1ESRI
			}
			return DialectWKT1GDAL
		}
	}
	// any other known keyword opening a bracket is a WKT2 fragment, e.g. a
	// bare ELLIPSOID or DATUM definition
	i := 0
	for i < len(upper) {
		c := upper[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			break
		}
		i++
	}
	if i > 0 && knownKeywords[upper[:i]] {
		if rest := strings.TrimLeft(upper[i:], " \t\r\n"); strings.HasPrefix(rest, "[") {
			return DialectWKT2_2015
		}
	}
	return DialectNotWKT
}
