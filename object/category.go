package object

import (
	"errors"
	"fmt"
)

// Category classifies reference-system constructs. The textual values double
// as the discriminator stored in registry rows.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryUnitOfMeasure
	CategoryPrimeMeridian
	CategoryEllipsoid
	CategoryGeodeticDatum
	CategoryVerticalDatum
	CategoryGeodeticCRS
	CategoryGeographicCRS
	CategoryProjectedCRS
	CategoryVerticalCRS
	CategoryCompoundCRS
	// CategoryCRS is the generic filter matching every *CRS category.
	CategoryCRS
	CategoryConversion
	CategoryTransformation
	CategoryConcatenatedOperation
	// CategoryCoordinateOperation is the generic filter matching every
	// operation category.
	CategoryCoordinateOperation
)

var ErrBadCategory = errors.New("bad category")

var categoryNames = map[Category]string{
	CategoryUnitOfMeasure:         "unit_of_measure",
	CategoryPrimeMeridian:         "prime_meridian",
	CategoryEllipsoid:             "ellipsoid",
	CategoryGeodeticDatum:         "geodetic_datum",
	CategoryVerticalDatum:         "vertical_datum",
	CategoryGeodeticCRS:           "geodetic_crs",
	CategoryGeographicCRS:         "geographic_crs",
	CategoryProjectedCRS:          "projected_crs",
	CategoryVerticalCRS:           "vertical_crs",
	CategoryCompoundCRS:           "compound_crs",
	CategoryCRS:                   "crs",
	CategoryConversion:            "conversion",
	CategoryTransformation:        "transformation",
	CategoryConcatenatedOperation: "concatenated_operation",
	CategoryCoordinateOperation:   "coordinate_operation",
}

func ParseCategory(v string) (Category, error) {
	for c, name := range categoryNames {
		if name == v {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadCategory, v)
}

func (c Category) String() string {
	d, err := c.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (c Category) MarshalText() ([]byte, error) {
	if name, ok := categoryNames[c]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("<err: %d is not a category>", c)
}

func (c *Category) UnmarshalText(d []byte) error {
	pc, err := ParseCategory(string(d))
	if err != nil {
		return err
	}
	*c = pc
	return nil
}

// IsCRS reports whether c denotes a coordinate reference system, generic or
// specific.
func (c Category) IsCRS() bool {
	switch c {
	case CategoryGeodeticCRS, CategoryGeographicCRS, CategoryProjectedCRS,
		CategoryVerticalCRS, CategoryCompoundCRS, CategoryCRS:
		return true
	}
	return false
}

// IsOperation reports whether c denotes a coordinate operation, generic or
// specific.
func (c Category) IsOperation() bool {
	switch c {
	case CategoryConversion, CategoryTransformation,
		CategoryConcatenatedOperation, CategoryCoordinateOperation:
		return true
	}
	return false
}

// Matches reports whether c satisfies filter. The generic CategoryCRS and
// CategoryCoordinateOperation filters match their refinements; every other
// filter requires equality.
func (c Category) Matches(filter Category) bool {
	switch filter {
	case c:
		return true
	case CategoryCRS:
		return c.IsCRS()
	case CategoryCoordinateOperation:
		return c.IsOperation()
	}
	return false
}

// AllCategories returns the specific (non-generic) categories in a stable
// order.
func AllCategories() []Category {
	return []Category{
		CategoryUnitOfMeasure,
		CategoryPrimeMeridian,
		CategoryEllipsoid,
		CategoryGeodeticDatum,
		CategoryVerticalDatum,
		CategoryGeodeticCRS,
		CategoryGeographicCRS,
		CategoryProjectedCRS,
		CategoryVerticalCRS,
		CategoryCompoundCRS,
		CategoryConversion,
		CategoryTransformation,
		CategoryConcatenatedOperation,
	}
}
