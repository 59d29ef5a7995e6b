package projstring

import "testing"

func TestParamString(t *testing.T) {
	cases := []struct {
		p    Param
		want string
	}{
		{Param{Name: "over", Kind: FlagParam}, "+over"},
		{Param{Name: "datum", Kind: StringParam, Str: "WGS84"}, "+datum=WGS84"},
		{Param{Name: "zone", Kind: IntParam, Int: 31}, "+zone=31"},
		{Param{Name: "to_rad", Kind: DoubleParam, Double: 0.0174532925199433}, "+to_rad=0.0174532925199433"},
		{Param{Name: "a", Kind: DoubleParam, Double: 6378137}, "+a=6378137"},
		{Param{Name: "e", Kind: DoubleParam, Double: 1e-9}, "+e=1e-09"},
		{Param{Name: "towgs84", Kind: DoubleListParam, Doubles: []float64{0, 0, 0}}, "+towgs84=0,0,0"},
	}
	for i, c := range cases {
		if got := c.p.String(); got != c.want {
			t.Errorf("test %d: got %q, want %q", i, got, c.want)
		}
	}
}

func TestPipelineCloneIsDeep(t *testing.T) {
	pl := &Pipeline{
		Title: "t",
		Steps: []Step{{Name: "utm", Params: []Param{{Name: "zone", Kind: IntParam, Int: 31}}}},
	}
	cp := pl.Clone()
	cp.Steps[0].Name = "merc"
	cp.Steps[0].Params[0].Int = 32
	if pl.Steps[0].Name != "utm" || pl.Steps[0].Params[0].Int != 31 {
		t.Fatalf("clone shares state: %+v", pl.Steps[0])
	}
}

func TestStepParamLookup(t *testing.T) {
	s := Step{Name: "utm", Params: []Param{
		{Name: "zone", Kind: IntParam, Int: 31},
		{Name: "south", Kind: FlagParam},
	}}
	if p, ok := s.Param("zone"); !ok || p.Int != 31 {
		t.Errorf("zone lookup %+v %v", p, ok)
	}
	if !s.HasParam("south") || s.HasParam("north") {
		t.Error("HasParam misreports")
	}
}
