package crstext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spatialref/crstext/debug"
	"github.com/spatialref/crstext/object"
	"github.com/spatialref/crstext/projstring"
	"github.com/spatialref/crstext/registry"
	"github.com/spatialref/crstext/wkt"
)

// ErrParse reports user input that matches none of the accepted forms.
var ErrParse = errors.New("unrecognized input")

// CreateFromUserInput guesses what text is and parses or resolves it
// accordingly. Accepted forms:
//
//   - bracketed definitions, any dialect
//   - operation text ("+proj=..." or "proj=...")
//   - authority:code pairs ("EPSG:4326")
//   - OGC URNs ("urn:ogc:def:crs:EPSG::4326")
//   - official names ("WGS 84"), matched across all authorities
//
// ctx may be nil; forms that need the registry then fail with a lookup
// error. usePROJ4InitRules applies to +init expansion in operation text.
func CreateFromUserInput(text string, ctx *registry.Context, usePROJ4InitRules bool) (object.Object, error) {
	trimmed := strings.TrimSpace(text)

	if d := wkt.GuessDialect(trimmed); d != wkt.DialectNotWKT {
		if debug.Input() {
			debug.Logf("input: parsing as %s\n", d)
		}
		return wkt.NewParser().CreateFromWKT(trimmed)
	}

	if strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "proj=") {
		if debug.Input() {
			debug.Logf("input: parsing as operation text\n")
		}
		var opts []projstring.ParserOption
		if ctx != nil {
			opts = append(opts, projstring.WithInitResolver(ctx))
		}
		if usePROJ4InitRules {
			opts = append(opts, projstring.UsePROJ4InitRules(true))
		}
		return projstring.NewParser(opts...).CreateFromPROJString(trimmed)
	}

	if strings.HasPrefix(strings.ToLower(trimmed), "urn:ogc:def:") {
		if debug.Input() {
			debug.Logf("input: resolving URN %s\n", trimmed)
		}
		return createFromURN(trimmed, ctx)
	}

	if auth, code, ok := splitAuthorityCode(trimmed); ok {
		if debug.Input() {
			debug.Logf("input: resolving code %s:%s\n", auth, code)
		}
		if ctx == nil {
			return nil, fmt.Errorf("%w: resolving %q needs a registry", registry.ErrLookup, trimmed)
		}
		return registry.NewFactory(ctx, auth).CreateObject(code)
	}

	if ctx != nil && trimmed != "" {
		if debug.Input() {
			debug.Logf("input: looking up name %q\n", trimmed)
		}
		objs, err := registry.NewFactory(ctx, "").CreateObjectsFromName(trimmed, nil, false, 1)
		if err != nil {
			return nil, err
		}
		if len(objs) > 0 {
			return objs[0], nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrParse, text)
}

// createFromURN resolves urn:ogc:def:<kind>:<authority>:<version>:<code>.
// The version field is accepted and ignored; the kind picks the typed
// creator, which cross-checks the resolved category.
func createFromURN(urn string, ctx *registry.Context) (object.Object, error) {
	parts := strings.Split(urn, ":")
	if len(parts) != 7 {
		return nil, fmt.Errorf("%w: URN %q does not have 7 fields", ErrParse, urn)
	}
	kind, auth, code := parts[3], parts[4], parts[6]
	if auth == "" || code == "" {
		return nil, fmt.Errorf("%w: URN %q has an empty authority or code", ErrParse, urn)
	}
	if ctx == nil {
		return nil, fmt.Errorf("%w: resolving %q needs a registry", registry.ErrLookup, urn)
	}
	f := registry.NewFactory(ctx, auth)
	switch kind {
	case "crs":
		return f.CreateCoordinateReferenceSystem(code)
	case "coordinateOperation":
		return f.CreateCoordinateOperation(code, false)
	case "datum":
		return f.CreateDatum(code)
	case "ellipsoid":
		return f.CreateEllipsoid(code)
	case "meridian":
		return f.CreatePrimeMeridian(code)
	case "uom":
		u, err := f.CreateUnitOfMeasure(code)
		if err != nil {
			return nil, err
		}
		return u.AsObject(), nil
	}
	return nil, fmt.Errorf("%w: unknown URN kind %q", ErrParse, kind)
}

// splitAuthorityCode recognizes the AUTH:CODE shorthand. Both halves must be
// non-empty and free of whitespace, and the code must not itself contain a
// colon.
func splitAuthorityCode(text string) (string, string, bool) {
	auth, code, ok := strings.Cut(text, ":")
	if !ok || auth == "" || code == "" {
		return "", "", false
	}
	if strings.ContainsAny(auth, " \t") || strings.ContainsAny(code, " \t:") {
		return "", "", false
	}
	return auth, code, true
}
