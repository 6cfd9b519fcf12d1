package matheval

import (
	"math"
	"math/big"
	"sort"

	"github.com/zephyrtronium/bigfloat"
)

// constprec is the precision in bits at which constants are computed before
// they are rounded to float64.
const constprec = 256

var (
	// degPerRad is 180/pi.
	degPerRad float64
	// radPerDeg is pi/180.
	radPerDeg float64

	// constants holds the named constants substituted during parsing.
	constants map[string]float64
)

func init() {
	one := new(big.Float).SetPrec(constprec).SetInt64(1)

	var pi, e, phi, t big.Float
	pi.SetPrec(constprec)
	bigfloat.Pi(&pi)
	e.SetPrec(constprec)
	bigfloat.Exp(&e, one)
	// phi = (1 + sqrt(5)) / 2
	phi.SetPrec(constprec).SetInt64(5)
	phi.Sqrt(&phi)
	phi.Add(&phi, one)
	phi.Quo(&phi, big.NewFloat(2))

	t.SetPrec(constprec).SetInt64(180)
	t.Quo(&t, &pi)
	degPerRad, _ = t.Float64()
	t.SetInt64(180)
	t.Quo(&pi, &t)
	radPerDeg, _ = t.Float64()

	constants = map[string]float64{
		"e":       f64(&e),
		"epsilon": math.Nextafter(1, 2) - 1,
		"phi":     f64(&phi),
		"pi":      f64(&pi),
	}
}

func f64(x *big.Float) float64 {
	r, _ := x.Float64()
	return r
}

// Constant is a named constant recognized by the parser.
type Constant struct {
	Name  string
	Value float64
}

// Constants returns the named constants, sorted by name.
func Constants() []Constant {
	r := make([]Constant, 0, len(constants))
	for k, v := range constants {
		r = append(r, Constant{Name: k, Value: v})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name < r[j].Name })
	return r
}
