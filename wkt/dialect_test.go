package wkt

import "testing"

func TestGuessDialect(t *testing.T) {
	cases := []struct {
		in   string
		want Dialect
	}{
		{`GEOGCRS["WGS 84"]`, DialectWKT2_2018},
		{`  GEOGCRS["WGS 84"]`, DialectWKT2_2018},
		{`BOUNDCRS[SOURCECRS[GEOGCRS["WGS 84"]]]`, DialectWKT2_2018},
		{`GEODCRS["WGS 84"]`, DialectWKT2_2015},
		{`geodcrs["WGS 84"]`, DialectWKT2_2015},
		{`PROJCRS["x",BASEGEODCRS["y"]]`, DialectWKT2_2015},
		{`PROJCRS["x",BASEGEOGCRS["y"]]`, DialectWKT2_2018},
		{`GEOGCS["WGS 84"]`, DialectWKT1GDAL},
		{`PROJCS["x",GEOGCS["y",DATUM["WGS_1984"]]]`, DialectWKT1GDAL},
		{`GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137,298.257223563]]]`, DialectWKT1ESRI},
		{`VERT_CS["x",VERT_DATUM["y",2005]]`, DialectWKT1GDAL},
		{`COMPD_CS["x"]`, DialectWKT1GDAL},
		{`LOCAL_CS["x"]`, DialectWKT1GDAL},
		{`USAGE[SCOPE["x"]]`, DialectWKT2_2018},
		{`ELLIPSOID["WGS 84",6378137,298.257223563]`, DialectWKT2_2015},
		{`DATUM ["D_x"]`, DialectWKT2_2015},
		{`PRIMEM["Greenwich",0]`, DialectWKT2_2015},
		{`ELLIPSOID`, DialectNotWKT},
		{`completely unrelated`, DialectNotWKT},
		{`+proj=longlat`, DialectNotWKT},
		{``, DialectNotWKT},
	}
	for _, c := range cases {
		if got := GuessDialect(c.in); got != c.want {
			t.Errorf("GuessDialect(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
