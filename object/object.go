// Package object holds the contracts shared by the textual codecs and the
// registry: the minimal Object interface every reference-system construct
// satisfies, the Category enumeration used to classify registry rows and
// parsed definitions, and plain unit-of-measure values.
//
// The parsing and formatting packages never depend on a concrete object
// hierarchy. They produce and consume values through this package so that a
// richer domain model can be layered on top without touching the codecs.
package object

// Object is the least common denominator of everything the registry can
// resolve and the codecs can describe: a named construct with a category.
type Object interface {
	// Name returns the human-readable name, e.g. "WGS 84".
	Name() string
	// Category classifies the construct.
	Category() Category
}
