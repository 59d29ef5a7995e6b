package wkt

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spatialref/crstext/object"
)

// testEllipsoid drives the formatter the way a real exporter would: keyword
// choice, unit omission and identifier output all read off the predicates.
type testEllipsoid struct {
	name string
	a    float64
	rf   float64
	unit object.Unit
}

func (e testEllipsoid) AppendWKT(f *Formatter) error {
	kw := "ELLIPSOID"
	if f.Version() == VersionWKT1 {
		kw = "SPHEROID"
	}
	f.StartNode(kw, true)
	defer f.EndNode()
	f.AddQuotedString(f.ESRIName(e.name, "ellipsoid"))
	f.AddNumber(e.a)
	f.AddNumber(e.rf)
	if f.OutputUnit() && !(f.EllipsoidUnitOmittedIfMetre() && e.unit.EquivalentTo(object.Metre)) {
		unitKw := "LENGTHUNIT"
		if f.Version() == VersionWKT1 || f.ForceUNITKeyword() {
			unitKw = "UNIT"
		}
		f.StartNode(unitKw, false)
		f.AddQuotedString(e.unit.Name)
		f.AddNumber(e.unit.Factor)
		if f.OutputID() && e.unit.Code != "" {
			writeTestID(f, e.unit.Authority, e.unit.Code)
		}
		f.EndNode()
	}
	if f.OutputID() {
		writeTestID(f, "EPSG", "7030")
	}
	return nil
}

func writeTestID(f *Formatter, auth, code string) {
	if f.Version() == VersionWKT1 {
		f.StartNode("AUTHORITY", false)
		f.AddQuotedString(auth)
		f.AddQuotedString(code)
		f.EndNode()
		return
	}
	f.StartNode("ID", false)
	f.AddQuotedString(auth)
	if n, err := strconv.ParseInt(code, 10, 64); err == nil {
		f.AddInt(n)
	} else {
		f.AddQuotedString(code)
	}
	f.EndNode()
}

var wgs84Ellipsoid = testEllipsoid{
	name: "WGS 84",
	a:    6378137,
	rf:   298.257223563,
	unit: object.Metre,
}

func TestExportConventions(t *testing.T) {
	cases := []struct {
		convention Convention
		want       string
	}{
		{
			convention: ConventionWKT2_2015,
			want: `ELLIPSOID["WGS 84",6378137,298.257223563,
    LENGTHUNIT["metre",1],
    ID["EPSG",7030]]`,
		},
		{
			convention: ConventionWKT2_2015Simplified,
			want: `ELLIPSOID["WGS 84",6378137,298.257223563,
    ID["EPSG",7030]]`,
		},
		{
			convention: ConventionWKT1GDAL,
			want: `SPHEROID["WGS 84",6378137,298.257223563,
    AUTHORITY["EPSG","7030"]]`,
		},
		{
			convention: ConventionWKT1ESRI,
			want:       `SPHEROID["WGS_84",6378137,298.257223563]`,
		},
	}
	for _, c := range cases {
		got, err := Export(wgs84Ellipsoid, WithConvention(c.convention))
		if err != nil {
			t.Fatalf("%v: %v", c.convention, err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%v (-want +got):\n%s", c.convention, diff)
		}
	}
}

func TestExportIdempotent(t *testing.T) {
	first, err := Export(wgs84Ellipsoid, WithConvention(ConventionWKT2_2018))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Export(wgs84Ellipsoid, WithConvention(ConventionWKT2_2018))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("fresh formatters disagree:\n%s\n%s", first, second)
	}
}

func TestExportNonMetreUnitKept(t *testing.T) {
	e := wgs84Ellipsoid
	e.unit = object.Foot
	got, err := Export(e, WithConvention(ConventionWKT1GDAL), MultiLine(false))
	if err != nil {
		t.Fatal(err)
	}
	want := `SPHEROID["WGS 84",6378137,298.257223563,UNIT["foot",0.3048,AUTHORITY["EPSG","9002"]],AUTHORITY["EPSG","7030"]]`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestIDSuppressedUnderAncestorID(t *testing.T) {
	got, err := Export(wgs84Ellipsoid, WithConvention(ConventionWKT2_2015), MultiLine(false))
	if err != nil {
		t.Fatal(err)
	}
	// the ellipsoid node declares an ID, so the nested unit omits its own
	want := `ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1],ID["EPSG",7030]]`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestPushOutputID(t *testing.T) {
	f := NewFormatter(MultiLine(false))
	pop := f.PushOutputID(false)
	if err := wgs84Ellipsoid.AppendWKT(f); err != nil {
		t.Fatal(err)
	}
	pop()
	got, err := f.WKT()
	if err != nil {
		t.Fatal(err)
	}
	want := `ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestPushAxisUnits(t *testing.T) {
	f := NewFormatter()
	if !f.AxisLinearUnit().EquivalentTo(object.Metre) {
		t.Error("default axis linear unit should be metre")
	}
	pop := f.PushAxisLinearUnit(object.Foot)
	if f.AxisLinearUnit().Name != "foot" {
		t.Error("pushed unit not visible")
	}
	pop()
	if !f.AxisLinearUnit().EquivalentTo(object.Metre) {
		t.Error("pop did not restore metre")
	}
}

func TestWKTPanicsOnOpenNode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for open node")
		}
	}()
	f := NewFormatter()
	f.StartNode("A", false)
	_, _ = f.WKT()
}

func TestWKTPanicsOnUnbalancedPush(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unbalanced push")
		}
	}()
	f := NewFormatter()
	f.PushOutputUnit(false)
	_, _ = f.WKT()
}

func TestStrictRejectsNonFinite(t *testing.T) {
	f := NewFormatter(Strict(true))
	f.StartNode("A", false)
	f.AddNumber(math.NaN())
	f.EndNode()
	if _, err := f.WKT(); !errors.Is(err, ErrFormat) {
		t.Fatalf("want ErrFormat, got %v", err)
	}

	// lax mode normalizes to zero
	f = NewFormatter()
	f.StartNode("A", false)
	f.AddNumber(math.Inf(1))
	f.EndNode()
	got, err := f.WKT()
	if err != nil {
		t.Fatal(err)
	}
	if got != "A[0]" {
		t.Errorf("got %q", got)
	}
}

func TestStrictRejectsControlCharacters(t *testing.T) {
	f := NewFormatter(Strict(true))
	f.StartNode("A", false)
	f.AddQuotedString("two\nlines")
	f.EndNode()
	if _, err := f.WKT(); !errors.Is(err, ErrFormat) {
		t.Fatalf("want ErrFormat, got %v", err)
	}

	f = NewFormatter()
	f.StartNode("A", false)
	f.AddQuotedString("two\nlines")
	f.EndNode()
	got, err := f.WKT()
	if err != nil {
		t.Fatal(err)
	}
	if got != `A["two lines"]` {
		t.Errorf("got %q", got)
	}
}

func TestAddQuotedStringEscape(t *testing.T) {
	f := NewFormatter()
	f.StartNode("REMARK", false)
	f.AddQuotedString(`says "hi"`)
	f.EndNode()
	got, err := f.WKT()
	if err != nil {
		t.Fatal(err)
	}
	if got != `REMARK["says ""hi"""]` {
		t.Errorf("got %q", got)
	}
}

func TestNumberFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{6378137, "6378137"},
		{298.257223563, "298.257223563"},
		{0.0174532925199433, "0.0174532925199433"},
		{0, "0"},
		{-5.5, "-5.5"},
		{1e-9, "1e-09"},
		{0.3048, "0.3048"},
	}
	for _, c := range cases {
		f := NewFormatter()
		f.StartNode("N", false)
		f.AddNumber(c.in)
		f.EndNode()
		got, err := f.WKT()
		if err != nil {
			t.Fatal(err)
		}
		if got != "N["+c.want+"]" {
			t.Errorf("AddNumber(%v) = %s, want N[%s]", c.in, got, c.want)
		}
	}
}

func TestIngestNodeRoundTrip(t *testing.T) {
	in := `GEOGCRS["WGS 84",DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]],CS[ellipsoidal,2,AXIS["latitude",north],AXIS["longitude",east],ANGLEUNIT["degree",0.0174532925199433]],ID["EPSG",4326]]`
	tree, err := ParseTree(in)
	if err != nil {
		t.Fatal(err)
	}
	f := NewFormatter(MultiLine(false))
	f.IngestNode(tree)
	got, err := f.WKT()
	if err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("ingest round trip:\n in  %s\n out %s", in, got)
	}
}

func TestIngestNodeMultiLine(t *testing.T) {
	tree, err := ParseTree(`A["x",B[1,2],C["y"]]`)
	if err != nil {
		t.Fatal(err)
	}
	f := NewFormatter()
	f.IngestNode(tree)
	got, err := f.WKT()
	if err != nil {
		t.Fatal(err)
	}
	want := `A["x",
    B[1,2],
    C["y"]]`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMorphNameToESRI(t *testing.T) {
	cases := []struct{ in, want string }{
		{"WGS 84", "WGS_84"},
		{"NAD83 (CSRS)", "NAD83_CSRS"},
		{"a  b", "a_b"},
		{"__x__", "x"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, c := range cases {
		if got := MorphNameToESRI(c.in); got != c.want {
			t.Errorf("MorphNameToESRI(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

type fakeAliases map[string]string

func (fa fakeAliases) AliasFromOfficialName(name, table, source string) (string, error) {
	return fa[table+"/"+name], nil
}

func TestESRINameUsesAliases(t *testing.T) {
	src := fakeAliases{"geodetic_datum/World Geodetic System 1984": "D_WGS_1984"}
	f := NewFormatter(WithConvention(ConventionWKT1ESRI), WithAliasSource(src))
	if got := f.ESRIName("World Geodetic System 1984", "geodetic_datum"); got != "D_WGS_1984" {
		t.Errorf("alias lookup: got %q", got)
	}
	// no alias row: fall back to morphing
	if got := f.ESRIName("North American Datum 1983", "geodetic_datum"); got != "North_American_Datum_1983" {
		t.Errorf("morph fallback: got %q", got)
	}
	// other conventions leave names alone
	f = NewFormatter()
	if got := f.ESRIName("WGS 84", "geodetic_datum"); got != "WGS 84" {
		t.Errorf("non-ESRI: got %q", got)
	}
}

func TestMarkCurrentNodeHasID(t *testing.T) {
	f := NewFormatter(MultiLine(false))
	f.StartNode("A", false)
	f.MarkCurrentNodeHasID()
	f.StartNode("B", false)
	if f.OutputID() {
		t.Error("ID should be suppressed under a marked ancestor")
	}
	f.EndNode()
	f.EndNode()
	if _, err := f.WKT(); err != nil {
		t.Fatal(err)
	}
}
