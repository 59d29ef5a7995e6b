package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Input    bool
	Registry bool
	Grids    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Input = boolEnv("CRSTEXT_DEBUG_INPUT")
	d.Registry = boolEnv("CRSTEXT_DEBUG_REGISTRY")
	d.Grids = boolEnv("CRSTEXT_DEBUG_GRIDS")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Input() bool {
	return d.Input
}
func Registry() bool {
	return d.Registry
}
func Grids() bool {
	return d.Grids
}
