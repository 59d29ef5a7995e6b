package crstext

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spatialref/crstext/object"
	"github.com/spatialref/crstext/projstring"
	"github.com/spatialref/crstext/registry"
	"github.com/spatialref/crstext/wkt"
)

const userInputSeed = `
objects:
  - authority: EPSG
    code: "4326"
    category: geographic_crs
    name: WGS 84
    definition: 'GEOGCRS["WGS 84",DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]],CS[ellipsoidal,2],AXIS["geodetic latitude (Lat)",north],AXIS["geodetic longitude (Lon)",east],ANGLEUNIT["degree",0.0174532925199433]]'
  - authority: EPSG
    code: "32631"
    category: projected_crs
    name: WGS 84 / UTM zone 31N
    definition: '+proj=utm +zone=31 +datum=WGS84'
  - authority: EPSG
    code: "7030"
    category: ellipsoid
    name: WGS 84
    definition: 'ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]'
  - authority: EPSG
    code: "6326"
    category: geodetic_datum
    name: World Geodetic System 1984
    definition: 'DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]]'
  - authority: EPSG
    code: "8901"
    category: prime_meridian
    name: Greenwich
    definition: 'PRIMEM["Greenwich",0,ANGLEUNIT["degree",0.0174532925199433]]'
aliases:
  - table: geodetic_crs
    authority: EPSG
    code: "4326"
    alt_name: WGS_1984
    source: ESRI
units:
  - authority: EPSG
    code: "9001"
    name: metre
    type: linear
    factor: 1
`

func newUserInputContext(t *testing.T) *registry.Context {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, registry.InitSchema(db))
	seed, err := registry.LoadSeed([]byte(userInputSeed))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(db))
	return registry.NewFromDB(db)
}

func TestUserInputWKT(t *testing.T) {
	obj, err := CreateFromUserInput(
		`ELLIPSOID["WGS 84",6378137,298.257223563]`, nil, false)
	require.NoError(t, err)
	require.Equal(t, "WGS 84", obj.Name())
	require.Equal(t, object.CategoryEllipsoid, obj.Category())

	// leading whitespace does not defeat detection
	_, err = CreateFromUserInput(
		"  GEOGCS[\"NAD27\",DATUM[\"North_American_Datum_1927\"]]", nil, false)
	require.NoError(t, err)
}

func TestUserInputPROJString(t *testing.T) {
	obj, err := CreateFromUserInput("+proj=utm +zone=31 +datum=WGS84", nil, false)
	require.NoError(t, err)
	require.Equal(t, object.CategoryProjectedCRS, obj.Category())

	// the leading plus is optional on every token
	obj, err = CreateFromUserInput("proj=longlat datum=WGS84", nil, false)
	require.NoError(t, err)
	require.Equal(t, object.CategoryGeographicCRS, obj.Category())
}

func TestUserInputInit(t *testing.T) {
	ctx := newUserInputContext(t)

	obj, err := CreateFromUserInput("+init=epsg:32631", ctx, false)
	require.NoError(t, err)
	require.Equal(t, "+proj=utm +zone=31 +datum=WGS84",
		projstring.MustExport(obj.(projstring.Exportable)))

	// without a registry the reference cannot be expanded
	_, err = CreateFromUserInput("+init=epsg:32631", nil, false)
	require.ErrorIs(t, err, projstring.ErrParse)

	// legacy init rules change nothing for a bare +init
	obj, err = CreateFromUserInput("+init=epsg:32631", ctx, true)
	require.NoError(t, err)
	require.Equal(t, "+proj=utm +zone=31 +datum=WGS84",
		projstring.MustExport(obj.(projstring.Exportable)))
}

func TestUserInputAuthorityCode(t *testing.T) {
	ctx := newUserInputContext(t)

	obj, err := CreateFromUserInput("EPSG:4326", ctx, false)
	require.NoError(t, err)
	require.Equal(t, "WGS 84", obj.Name())
	require.Equal(t, object.CategoryGeographicCRS, obj.Category())

	_, err = CreateFromUserInput("EPSG:99999", ctx, false)
	var unknown *registry.UnknownCodeError
	require.ErrorAs(t, err, &unknown)

	_, err = CreateFromUserInput("EPSG:4326", nil, false)
	require.ErrorIs(t, err, registry.ErrLookup)
}

func TestUserInputURN(t *testing.T) {
	ctx := newUserInputContext(t)

	obj, err := CreateFromUserInput("urn:ogc:def:crs:EPSG::4326", ctx, false)
	require.NoError(t, err)
	require.Equal(t, "WGS 84", obj.Name())
	require.True(t, obj.Category().IsCRS())

	obj, err = CreateFromUserInput("urn:ogc:def:ellipsoid:EPSG::7030", ctx, false)
	require.NoError(t, err)
	require.Equal(t, object.CategoryEllipsoid, obj.Category())

	obj, err = CreateFromUserInput("urn:ogc:def:datum:EPSG::6326", ctx, false)
	require.NoError(t, err)
	require.Equal(t, object.CategoryGeodeticDatum, obj.Category())

	obj, err = CreateFromUserInput("urn:ogc:def:meridian:EPSG::8901", ctx, false)
	require.NoError(t, err)
	require.Equal(t, object.CategoryPrimeMeridian, obj.Category())

	obj, err = CreateFromUserInput("urn:ogc:def:uom:EPSG::9001", ctx, false)
	require.NoError(t, err)
	require.Equal(t, object.CategoryUnitOfMeasure, obj.Category())

	// the kind is cross-checked against the resolved category
	_, err = CreateFromUserInput("urn:ogc:def:crs:EPSG::7030", ctx, false)
	require.ErrorIs(t, err, registry.ErrLookup)

	_, err = CreateFromUserInput("urn:ogc:def:frob:EPSG::1", ctx, false)
	require.ErrorIs(t, err, ErrParse)

	_, err = CreateFromUserInput("urn:ogc:def:crs:EPSG:4326", ctx, false)
	require.ErrorIs(t, err, ErrParse)

	_, err = CreateFromUserInput("urn:ogc:def:crs:EPSG::4326", nil, false)
	require.ErrorIs(t, err, registry.ErrLookup)
}

func TestUserInputName(t *testing.T) {
	ctx := newUserInputContext(t)

	obj, err := CreateFromUserInput("WGS 84", ctx, false)
	require.NoError(t, err)
	require.True(t, obj.Category().IsCRS())

	// aliases resolve too
	obj, err = CreateFromUserInput("WGS_1984", ctx, false)
	require.NoError(t, err)
	require.Equal(t, "WGS 84", obj.Name())

	_, err = CreateFromUserInput("Atlantis 2000", ctx, false)
	require.ErrorIs(t, err, ErrParse)

	// a bare name without a registry is unrecognizable
	_, err = CreateFromUserInput("WGS 84", nil, false)
	require.ErrorIs(t, err, ErrParse)
}

func TestUserInputEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t"} {
		_, err := CreateFromUserInput(in, nil, false)
		require.ErrorIs(t, err, ErrParse)
	}
}

func TestUserInputWKTExportRoundTrip(t *testing.T) {
	ctx := newUserInputContext(t)

	obj, err := CreateFromUserInput("urn:ogc:def:crs:EPSG::4326", ctx, false)
	require.NoError(t, err)

	out, err := wkt.Export(obj.(wkt.Exportable),
		wkt.WithConvention(wkt.ConventionWKT2_2018), wkt.MultiLine(false))
	require.NoError(t, err)
	require.Contains(t, out, `GEOGCRS["WGS 84"`)
}
