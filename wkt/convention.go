package wkt

import (
	"errors"
	"fmt"
)

// Convention selects the output flavor of the formatter. Conventions differ
// in keyword vocabulary, which subordinate nodes are implied rather than
// written, and layout defaults; the differences live in one table below and
// are consulted through Formatter predicates, never switched on elsewhere.
type Convention int

const (
	// ConventionWKT2_2015 is the full 2015 revision of the modern grammar.
	ConventionWKT2_2015 Convention = iota
	// ConventionWKT2_2015Simplified drops inferable subordinate nodes and
	// repeats identifiers only on the top-level node.
	ConventionWKT2_2015Simplified
	ConventionWKT2_2018
	ConventionWKT2_2018Simplified
	// ConventionWKT1GDAL is the legacy grammar as consumed by GDAL.
	ConventionWKT1GDAL
	// ConventionWKT1ESRI is the legacy grammar as produced by ArcGIS:
	// single line, morphed names, no identifiers.
	ConventionWKT1ESRI
)

// ConventionWKT2 is what callers mean when they just say "WKT2".
const ConventionWKT2 = ConventionWKT2_2015

var ErrBadConvention = errors.New("bad convention")

func ParseConvention(v string) (Convention, error) {
	c, ok := map[string]Convention{
		"wkt2":                 ConventionWKT2,
		"wkt2_2015":            ConventionWKT2_2015,
		"wkt2_2015_simplified": ConventionWKT2_2015Simplified,
		"wkt2_2018":            ConventionWKT2_2018,
		"wkt2_2018_simplified": ConventionWKT2_2018Simplified,
		"wkt1":                 ConventionWKT1GDAL,
		"wkt1_gdal":            ConventionWKT1GDAL,
		"wkt1_esri":            ConventionWKT1ESRI,
	}[v]
	if ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadConvention, v)
}

func (c Convention) String() string {
	d, err := c.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (c Convention) MarshalText() ([]byte, error) {
	switch c {
	case ConventionWKT2_2015:
		return []byte("wkt2_2015"), nil
	case ConventionWKT2_2015Simplified:
		return []byte("wkt2_2015_simplified"), nil
	case ConventionWKT2_2018:
		return []byte("wkt2_2018"), nil
	case ConventionWKT2_2018Simplified:
		return []byte("wkt2_2018_simplified"), nil
	case ConventionWKT1GDAL:
		return []byte("wkt1_gdal"), nil
	case ConventionWKT1ESRI:
		return []byte("wkt1_esri"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a convention>", c)
	}
}

func (c *Convention) UnmarshalText(d []byte) error {
	pc, err := ParseConvention(string(d))
	if err != nil {
		return err
	}
	*c = pc
	return nil
}

// Version is the grammar generation of a convention.
type Version int

const (
	VersionWKT2 Version = iota
	VersionWKT1
)

// OutputAxisRule controls whether AXIS nodes are written.
type OutputAxisRule int

const (
	// AxisRuleYes always writes axis nodes.
	AxisRuleYes OutputAxisRule = iota
	// AxisRuleNo never writes axis nodes.
	AxisRuleNo
	// AxisRuleWKT1GDALEPSGStyle writes axis nodes only when the axes do not
	// follow the order the legacy grammar implies anyway.
	AxisRuleWKT1GDALEPSGStyle
)

// conventionParams is the per-convention behavior table. A zero field means
// the full, explicit behavior; the simplified and legacy conventions switch
// individual omissions on.
type conventionParams struct {
	version         Version
	use2018Keywords bool
	useESRIDialect  bool

	multiLine  bool
	outputAxis OutputAxisRule
	outputIDs  bool

	idOnTopLevelOnly                bool
	forceUNITKeyword                bool
	primeMeridianOmittedIfGreenwich bool
	ellipsoidUnitOmittedIfMetre     bool
	pmOrParamUnitOmittedIfSameAxis  bool
	outputCSUnitOnlyOnceIfSame      bool
	primeMeridianInDegree           bool
}

var conventionTable = map[Convention]conventionParams{
	ConventionWKT2_2015: {
		version:    VersionWKT2,
		multiLine:  true,
		outputAxis: AxisRuleYes,
		outputIDs:  true,
	},
	ConventionWKT2_2018: {
		version:         VersionWKT2,
		use2018Keywords: true,
		multiLine:       true,
		outputAxis:      AxisRuleYes,
		outputIDs:       true,
	},
	ConventionWKT2_2015Simplified: {
		version:                         VersionWKT2,
		multiLine:                       true,
		outputAxis:                      AxisRuleNo,
		outputIDs:                       true,
		idOnTopLevelOnly:                true,
		forceUNITKeyword:                true,
		primeMeridianOmittedIfGreenwich: true,
		ellipsoidUnitOmittedIfMetre:     true,
		pmOrParamUnitOmittedIfSameAxis:  true,
		outputCSUnitOnlyOnceIfSame:      true,
	},
	ConventionWKT2_2018Simplified: {
		version:                         VersionWKT2,
		use2018Keywords:                 true,
		multiLine:                       true,
		outputAxis:                      AxisRuleNo,
		outputIDs:                       true,
		idOnTopLevelOnly:                true,
		forceUNITKeyword:                true,
		primeMeridianOmittedIfGreenwich: true,
		ellipsoidUnitOmittedIfMetre:     true,
		pmOrParamUnitOmittedIfSameAxis:  true,
		outputCSUnitOnlyOnceIfSame:      true,
	},
	ConventionWKT1GDAL: {
		version:                        VersionWKT1,
		multiLine:                      true,
		outputAxis:                     AxisRuleWKT1GDALEPSGStyle,
		outputIDs:                      true,
		forceUNITKeyword:               true,
		ellipsoidUnitOmittedIfMetre:    true,
		pmOrParamUnitOmittedIfSameAxis: true,
		outputCSUnitOnlyOnceIfSame:     true,
		primeMeridianInDegree:          true,
	},
	ConventionWKT1ESRI: {
		version:                        VersionWKT1,
		useESRIDialect:                 true,
		multiLine:                      false,
		outputAxis:                     AxisRuleNo,
		outputIDs:                      false,
		forceUNITKeyword:               true,
		ellipsoidUnitOmittedIfMetre:    true,
		pmOrParamUnitOmittedIfSameAxis: true,
		outputCSUnitOnlyOnceIfSame:     true,
		primeMeridianInDegree:          true,
	},
}

func (c Convention) params() conventionParams {
	if p, ok := conventionTable[c]; ok {
		return p
	}
	return conventionTable[ConventionWKT2_2015]
}
