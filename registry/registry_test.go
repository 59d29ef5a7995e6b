package registry

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// testSeed is a miniature registry: a few reference systems, the operations
// linking them, aliases, units and grid records.
const testSeed = `
metadata:
  DATABASE.LAYOUT.VERSION.MAJOR: "1"
  DATABASE.LAYOUT.VERSION.MINOR: "0"
objects:
  - authority: EPSG
    code: "4326"
    category: geographic_crs
    name: WGS 84
    description: World Geodetic System 1984 ensemble.
    definition: 'GEOGCRS["WGS 84",DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]],CS[ellipsoidal,2],AXIS["geodetic latitude (Lat)",north],AXIS["geodetic longitude (Lon)",east],ANGLEUNIT["degree",0.0174532925199433]]'
  - authority: EPSG
    code: "4267"
    category: geographic_crs
    name: NAD27
    definition: 'GEOGCRS["NAD27",DATUM["North American Datum 1927",ELLIPSOID["Clarke 1866",6378206.4,294.978698213898,LENGTHUNIT["metre",1]]],CS[ellipsoidal,2],AXIS["geodetic latitude (Lat)",north],AXIS["geodetic longitude (Lon)",east],ANGLEUNIT["degree",0.0174532925199433]]'
  - authority: EPSG
    code: "4258"
    category: geographic_crs
    name: ETRS89
    definition: 'GEOGCRS["ETRS89",DATUM["European Terrestrial Reference System 1989",ELLIPSOID["GRS 1980",6378137,298.257222101,LENGTHUNIT["metre",1]]],CS[ellipsoidal,2],AXIS["geodetic latitude (Lat)",north],AXIS["geodetic longitude (Lon)",east],ANGLEUNIT["degree",0.0174532925199433]]'
  - authority: EPSG
    code: "32631"
    category: projected_crs
    name: WGS 84 / UTM zone 31N
    definition: '+proj=utm +zone=31 +datum=WGS84'
  - authority: EPSG
    code: "16031"
    category: conversion
    name: UTM zone 31N
    definition: '+proj=utm +zone=31'
  - authority: EPSG
    code: "7030"
    category: ellipsoid
    name: WGS 84
    definition: 'ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]'
  - authority: EPSG
    code: "8901"
    category: prime_meridian
    name: Greenwich
    definition: 'PRIMEM["Greenwich",0,ANGLEUNIT["degree",0.0174532925199433]]'
  - authority: EPSG
    code: "6326"
    category: geodetic_datum
    name: World Geodetic System 1984
    definition: 'DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]]'
  - authority: EPSG
    code: "1188"
    category: transformation
    name: NAD27 to WGS 84 (1)
    description: For applications to 5 m accuracy.
    definition: '+proj=hgridshift +grids=official.gsb'
  - authority: EPSG
    code: "8001"
    category: transformation
    name: NAD27 to ETRS89 (1)
    definition: '+proj=helmert +x=1'
  - authority: EPSG
    code: "8002"
    category: transformation
    name: WGS 84 to ETRS89 (1)
    definition: '+proj=helmert +x=2'
  - authority: TEST
    code: "42"
    category: ellipsoid
    name: Custom Sphere
    definition: 'ELLIPSOID["Sphere",6371000,0,LENGTHUNIT["metre",1]]'
    deprecated: true
  - authority: TEST
    code: "77"
    category: transformation
    name: Flipped Shift
    definition: '+proj=hgridshift +grids=flipme.gsb'
  - authority: TEST
    code: "empty"
    category: ellipsoid
    name: No Definition
    definition: ''
  - authority: TEST
    code: "bad"
    category: ellipsoid
    name: Broken
    definition: 'ELLIPSOID["Broken"'
operations:
  - authority: EPSG
    code: "1188"
    source_authority: EPSG
    source_code: "4267"
    target_authority: EPSG
    target_code: "4326"
    accuracy: 5.0
    grid_name: official.gsb
  - authority: EPSG
    code: "8001"
    source_authority: EPSG
    source_code: "4267"
    target_authority: EPSG
    target_code: "4258"
    accuracy: 1.0
  - authority: EPSG
    code: "8002"
    source_authority: EPSG
    source_code: "4326"
    target_authority: EPSG
    target_code: "4258"
    accuracy: 1.0
  - authority: TEST
    code: "77"
    source_authority: EPSG
    source_code: "4267"
    target_authority: EPSG
    target_code: "4326"
    grid_name: flipme.gsb
aliases:
  - table: geodetic_crs
    authority: EPSG
    code: "4326"
    alt_name: WGS_1984
    source: ESRI
  - table: geodetic_crs
    authority: EPSG
    code: "4258"
    alt_name: ETRS_1989
    source: ESRI
  - table: geodetic_crs
    authority: EPSG
    code: "4267"
    alt_name: NAD27(1927)
    source: OLD
units:
  - authority: EPSG
    code: "9001"
    name: metre
    type: linear
    factor: 1
  - authority: EPSG
    code: "9122"
    name: degree
    type: angular
    factor: 0.0174532925199433
  - authority: TEST
    code: "f"
    name: fathom
    type: linear
    factor: 1.8288
    deprecated: true
grid_packages:
  - name: proj-datumgrid
    url: https://download.osgeo.org/proj/proj-datumgrid-1.8.zip
    direct_download: true
    open_license: true
grid_alternatives:
  - original: official.gsb
    proj_name: alternate.gsb
    format: GTX
    package: proj-datumgrid
  - original: flipme.gsb
    proj_name: flipped.gtx
    format: GTX
    inverse: true
    package: proj-datumgrid
    url: https://example.com/flipped.gtx
    direct_download: true
`

// newTestDB opens an in-memory registry laid out and filled with testSeed.
// A single connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitSchema(db))
	seed, err := LoadSeed([]byte(testSeed))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(db))
	return db
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	return NewFromDB(newTestDB(t))
}
