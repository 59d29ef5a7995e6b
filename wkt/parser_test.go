package wkt

import (
	"errors"
	"strings"
	"testing"

	"github.com/spatialref/crstext/object"
)

const gdalWGS84 = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`

func TestCreateFromWKTCategories(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantCat  object.Category
	}{
		{
			in:       `GEOGCRS["WGS 84",DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563]]]`,
			wantName: "WGS 84",
			wantCat:  object.CategoryGeographicCRS,
		},
		{
			in:       gdalWGS84,
			wantName: "WGS 84",
			wantCat:  object.CategoryGeographicCRS,
		},
		{
			in:       `PROJCS["NAD83 / UTM zone 17N",GEOGCS["NAD83",DATUM["North_American_Datum_1983",SPHEROID["GRS 1980",6378137,298.257222101]]]]`,
			wantName: "NAD83 / UTM zone 17N",
			wantCat:  object.CategoryProjectedCRS,
		},
		{
			in:       `DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563]]`,
			wantName: "World Geodetic System 1984",
			wantCat:  object.CategoryGeodeticDatum,
		},
		{
			in:       `ELLIPSOID["GRS 1980",6378137,298.257222101]`,
			wantName: "GRS 1980",
			wantCat:  object.CategoryEllipsoid,
		},
		{
			in:       `VERTCRS["NAVD88",VDATUM["North American Vertical Datum 1988"],CS[vertical,1],AXIS["gravity-related height (H)",up]]`,
			wantName: "NAVD88",
			wantCat:  object.CategoryVerticalCRS,
		},
		{
			in:       `CONVERSION["UTM zone 31N",METHOD["Transverse Mercator"]]`,
			wantName: "UTM zone 31N",
			wantCat:  object.CategoryConversion,
		},
	}
	for _, c := range cases {
		p := NewParser()
		obj, err := p.CreateFromWKT(c.in)
		if err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if obj.Name() != c.wantName {
			t.Errorf("name %q, want %q", obj.Name(), c.wantName)
		}
		if obj.Category() != c.wantCat {
			t.Errorf("category %v, want %v", obj.Category(), c.wantCat)
		}
		if len(p.Warnings()) != 0 {
			t.Errorf("%s: unexpected warnings %v", c.in, p.Warnings())
		}
	}
}

func TestCreateFromWKTBadRoot(t *testing.T) {
	p := NewParser()
	if _, err := p.CreateFromWKT(`FROBNICATOR["x",1]`); !errors.Is(err, ErrParse) {
		t.Fatalf("want ErrParse, got %v", err)
	}
}

func TestCreateFromWKTWarnings(t *testing.T) {
	in := `GEOGCRS["WGS 84",DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563]],TOWGS84[0,0,0,0,0,0,0],WIDGET["w",1]]`
	p := NewParser()
	if _, err := p.CreateFromWKT(in); err != nil {
		t.Fatal(err)
	}
	warns := p.Warnings()
	if len(warns) != 2 {
		t.Fatalf("want 2 warnings, got %v", warns)
	}
	var sawLegacy, sawUnknown bool
	for _, w := range warns {
		if strings.Contains(w, "TOWGS84") {
			sawLegacy = true
		}
		if strings.Contains(w, "WIDGET") {
			sawUnknown = true
		}
	}
	if !sawLegacy || !sawUnknown {
		t.Errorf("warnings missing expected entries: %v", warns)
	}

	// strict escalates the first warning
	p = NewParser(ParseStrict(true))
	if _, err := p.CreateFromWKT(in); !errors.Is(err, ErrParse) {
		t.Fatalf("strict: want ErrParse, got %v", err)
	}
}

func TestCreateFromWKTWarningsReset(t *testing.T) {
	p := NewParser()
	if _, err := p.CreateFromWKT(`GEOGCRS["x",WIDGET["w",1]]`); err != nil {
		t.Fatal(err)
	}
	if len(p.Warnings()) != 1 {
		t.Fatalf("want 1 warning, got %v", p.Warnings())
	}
	if _, err := p.CreateFromWKT(`ELLIPSOID["GRS 1980",6378137,298.257222101]`); err != nil {
		t.Fatal(err)
	}
	if len(p.Warnings()) != 0 {
		t.Errorf("warnings should reset per call, got %v", p.Warnings())
	}
}

func TestParseExportRoundTrip(t *testing.T) {
	p := NewParser()
	obj, err := p.CreateFromWKT(gdalWGS84)
	if err != nil {
		t.Fatal(err)
	}
	exp, ok := obj.(Exportable)
	if !ok {
		t.Fatal("parsed object should be exportable")
	}
	out, err := Export(exp, MultiLine(false))
	if err != nil {
		t.Fatal(err)
	}
	if out != gdalWGS84 {
		t.Errorf("round trip:\n in  %s\n out %s", gdalWGS84, out)
	}

	// reparsing the output reaches a fixed point
	obj2, err := NewParser().CreateFromWKT(out)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := Export(obj2.(Exportable), MultiLine(false))
	if err != nil {
		t.Fatal(err)
	}
	if out2 != out {
		t.Errorf("not idempotent:\n first  %s\n second %s", out, out2)
	}
}

func TestParseConstructorHook(t *testing.T) {
	var seen *Node
	p := NewParser(ParseConstructor(func(n *Node) (object.Object, error) {
		seen = n
		return object.Metre.AsObject(), nil
	}))
	obj, err := p.CreateFromWKT(`ELLIPSOID["GRS 1980",6378137,298.257222101]`)
	if err != nil {
		t.Fatal(err)
	}
	if seen == nil || !strings.EqualFold(seen.Value(), "ELLIPSOID") {
		t.Errorf("constructor did not receive the tree")
	}
	if obj.Name() != "metre" {
		t.Errorf("constructor result not returned: %v", obj.Name())
	}
}

func TestTreeSource(t *testing.T) {
	p := NewParser()
	obj, err := p.CreateFromWKT(`PRIMEM["Greenwich",0]`)
	if err != nil {
		t.Fatal(err)
	}
	src, ok := obj.(TreeSource)
	if !ok {
		t.Fatal("parsed object should expose its tree")
	}
	if got := src.Node().Value(); got != "PRIMEM" {
		t.Errorf("tree root %q", got)
	}
}
