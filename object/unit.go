package object

import "math"

// UnitKind partitions units of measure by the quantity they measure.
type UnitKind int

const (
	UnitKindUnknown UnitKind = iota
	UnitKindLinear
	UnitKindAngular
	UnitKindScale
	UnitKindTime
)

func (k UnitKind) String() string {
	switch k {
	case UnitKindLinear:
		return "linear"
	case UnitKindAngular:
		return "angular"
	case UnitKindScale:
		return "scale"
	case UnitKindTime:
		return "time"
	default:
		return "unknown"
	}
}

// ParseUnitKind is the inverse of String; unrecognized input maps to
// UnitKindUnknown without error, matching how registries record exotic
// quantities.
func ParseUnitKind(v string) UnitKind {
	switch v {
	case "linear":
		return UnitKindLinear
	case "angular":
		return UnitKindAngular
	case "scale":
		return UnitKindScale
	case "time":
		return UnitKindTime
	}
	return UnitKindUnknown
}

// Unit is a named unit of measure. Factor converts a value in this unit to
// the SI base unit of its kind (metre, radian, unity, second). Authority and
// Code are optional registry identifiers.
type Unit struct {
	Name      string
	Kind      UnitKind
	Factor    float64
	Authority string
	Code      string
}

// Common units, with their usual EPSG identities.
var (
	Metre     = Unit{Name: "metre", Kind: UnitKindLinear, Factor: 1.0, Authority: "EPSG", Code: "9001"}
	Foot      = Unit{Name: "foot", Kind: UnitKindLinear, Factor: 0.3048, Authority: "EPSG", Code: "9002"}
	USFoot    = Unit{Name: "US survey foot", Kind: UnitKindLinear, Factor: 0.304800609601219, Authority: "EPSG", Code: "9003"}
	Radian    = Unit{Name: "radian", Kind: UnitKindAngular, Factor: 1.0, Authority: "EPSG", Code: "9101"}
	Degree    = Unit{Name: "degree", Kind: UnitKindAngular, Factor: 0.0174532925199433, Authority: "EPSG", Code: "9122"}
	ArcSecond = Unit{Name: "arc-second", Kind: UnitKindAngular, Factor: 4.84813681109536e-06, Authority: "EPSG", Code: "9104"}
	Grad      = Unit{Name: "grad", Kind: UnitKindAngular, Factor: 0.015707963267949, Authority: "EPSG", Code: "9105"}
	Unity     = Unit{Name: "unity", Kind: UnitKindScale, Factor: 1.0, Authority: "EPSG", Code: "9201"}
	Second    = Unit{Name: "second", Kind: UnitKindTime, Factor: 1.0, Authority: "EPSG", Code: "1040"}
)

// relative tolerance for factor comparison; conversion factors come from
// text with at most fifteen significant digits.
const unitFactorEps = 1e-10

// Equal reports whether u and v denote the same unit: same kind, same name,
// and factors equal within a relative tolerance.
func (u Unit) Equal(v Unit) bool {
	if u.Kind != v.Kind || u.Name != v.Name {
		return false
	}
	return sameFactor(u.Factor, v.Factor)
}

// EquivalentTo reports whether u and v convert identically, ignoring names
// and identifiers.
func (u Unit) EquivalentTo(v Unit) bool {
	return u.Kind == v.Kind && sameFactor(u.Factor, v.Factor)
}

func sameFactor(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= unitFactorEps*scale
}

func (u Unit) Category() Category { return CategoryUnitOfMeasure }

type unitObject struct{ Unit }

func (o unitObject) Name() string { return o.Unit.Name }

// AsObject adapts u to the Object interface. Unit itself cannot satisfy it
// because Name is a field.
func (u Unit) AsObject() Object { return unitObject{u} }
