package matheval

import (
	"math"
	"sort"
	"strconv"
)

// Func identifies an operator or named function. Names are resolved to
// Funcs once, during parsing, so a parsed tree carries only these values.
type Func uint8

const (
	FuncNone Func = iota

	// unary operators
	FuncPlus  // +x
	FuncMinus // -x
	FuncNot   // !x

	// unary functions
	FuncAbs
	FuncAcos
	FuncAcosh
	FuncAsin
	FuncAsinh
	FuncAtan
	FuncAtanh
	FuncCbrt
	FuncCeil
	FuncCos
	FuncCosh
	FuncDeg
	FuncErf
	FuncErfc
	FuncExp
	FuncExp2
	FuncFloor
	FuncIsinf
	FuncIsnan
	FuncLog
	FuncLog2
	FuncLog10
	FuncRad
	FuncRound
	FuncSgn
	FuncSin
	FuncSinh
	FuncSqrt
	FuncTan
	FuncTanh
	FuncTgamma

	// binary operators
	FuncAdd       // x + y
	FuncSub       // x - y
	FuncMul       // x * y
	FuncDiv       // x / y
	FuncMod       // x % y
	FuncPow       // x ** y and pow(x, y)
	FuncLess      // x < y
	FuncLessEq    // x <= y
	FuncGreater   // x > y
	FuncGreaterEq // x >= y
	FuncEq        // x == y
	FuncNotEq     // x != y
	FuncAnd       // x && y
	FuncOr        // x || y

	// binary functions
	FuncAtan2
	FuncMax
	FuncMin

	// ternary functions
	FuncIfElse

	funcCount
)

type funcinfo struct {
	name  string
	arity int8
	// named is whether the Func is callable by name.
	named bool
}

var funcinfos = [funcCount]funcinfo{
	FuncPlus:  {"+", 1, false},
	FuncMinus: {"-", 1, false},
	FuncNot:   {"!", 1, false},

	FuncAbs:    {"abs", 1, true},
	FuncAcos:   {"acos", 1, true},
	FuncAcosh:  {"acosh", 1, true},
	FuncAsin:   {"asin", 1, true},
	FuncAsinh:  {"asinh", 1, true},
	FuncAtan:   {"atan", 1, true},
	FuncAtanh:  {"atanh", 1, true},
	FuncCbrt:   {"cbrt", 1, true},
	FuncCeil:   {"ceil", 1, true},
	FuncCos:    {"cos", 1, true},
	FuncCosh:   {"cosh", 1, true},
	FuncDeg:    {"deg", 1, true},
	FuncErf:    {"erf", 1, true},
	FuncErfc:   {"erfc", 1, true},
	FuncExp:    {"exp", 1, true},
	FuncExp2:   {"exp2", 1, true},
	FuncFloor:  {"floor", 1, true},
	FuncIsinf:  {"isinf", 1, true},
	FuncIsnan:  {"isnan", 1, true},
	FuncLog:    {"log", 1, true},
	FuncLog2:   {"log2", 1, true},
	FuncLog10:  {"log10", 1, true},
	FuncRad:    {"rad", 1, true},
	FuncRound:  {"round", 1, true},
	FuncSgn:    {"sgn", 1, true},
	FuncSin:    {"sin", 1, true},
	FuncSinh:   {"sinh", 1, true},
	FuncSqrt:   {"sqrt", 1, true},
	FuncTan:    {"tan", 1, true},
	FuncTanh:   {"tanh", 1, true},
	FuncTgamma: {"tgamma", 1, true},

	FuncAdd:       {"+", 2, false},
	FuncSub:       {"-", 2, false},
	FuncMul:       {"*", 2, false},
	FuncDiv:       {"/", 2, false},
	FuncMod:       {"%", 2, false},
	FuncPow:       {"pow", 2, true},
	FuncLess:      {"<", 2, false},
	FuncLessEq:    {"<=", 2, false},
	FuncGreater:   {">", 2, false},
	FuncGreaterEq: {">=", 2, false},
	FuncEq:        {"==", 2, false},
	FuncNotEq:     {"!=", 2, false},
	FuncAnd:       {"&&", 2, false},
	FuncOr:        {"||", 2, false},

	FuncAtan2: {"atan2", 2, true},
	FuncMax:   {"max", 2, true},
	FuncMin:   {"min", 2, true},

	FuncIfElse: {"ifelse", 3, true},
}

// namedfuncs maps function names to their Funcs.
var namedfuncs = func() map[string]Func {
	m := make(map[string]Func)
	for f := FuncNone + 1; f < funcCount; f++ {
		if funcinfos[f].named {
			m[funcinfos[f].name] = f
		}
	}
	return m
}()

// String returns the name of the function, or the operator symbol for
// operators. FuncPow is "pow".
func (f Func) String() string {
	if f == FuncNone || f >= funcCount {
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
	return funcinfos[f].name
}

// Arity returns the number of arguments f takes, or 0 for an invalid Func.
func (f Func) Arity() int {
	if f >= funcCount {
		return 0
	}
	return int(funcinfos[f].arity)
}

// FuncInfo describes a function callable by name in expressions.
type FuncInfo struct {
	Name  string
	Arity int
}

// Funcs returns every function callable by name, sorted by name.
func Funcs() []FuncInfo {
	r := make([]FuncInfo, 0, len(namedfuncs))
	for name, f := range namedfuncs {
		r = append(r, FuncInfo{Name: name, Arity: f.Arity()})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name < r[j].Name })
	return r
}

// b2f converts a boolean to 1 or 0.
func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func invalid(fn string, x float64) error {
	return &DomainError{Reason: InvalidDomain, Func: fn, X: x, Arg: 1}
}

func divzero(fn string) error {
	return &DomainError{Reason: DivideByZero, Func: fn}
}

// call1 applies a unary function.
func call1(f Func, x float64) (float64, error) {
	switch f {
	case FuncPlus:
		return x, nil
	case FuncMinus:
		return -x, nil
	case FuncNot:
		return b2f(x == 0), nil
	case FuncAbs:
		return math.Abs(x), nil
	case FuncAcos:
		if math.Abs(x) > 1 {
			return 0, invalid("acos", x)
		}
		return math.Acos(x), nil
	case FuncAcosh:
		if x < 1 {
			return 0, invalid("acosh", x)
		}
		return math.Acosh(x), nil
	case FuncAsin:
		if math.Abs(x) > 1 {
			return 0, invalid("asin", x)
		}
		return math.Asin(x), nil
	case FuncAsinh:
		return math.Asinh(x), nil
	case FuncAtan:
		return math.Atan(x), nil
	case FuncAtanh:
		switch ax := math.Abs(x); {
		case ax > 1:
			return 0, invalid("atanh", x)
		case ax == 1:
			return 0, divzero("atanh")
		}
		return math.Atanh(x), nil
	case FuncCbrt:
		return math.Cbrt(x), nil
	case FuncCeil:
		return math.Ceil(x), nil
	case FuncCos:
		if math.IsInf(x, 0) {
			return 0, invalid("cos", x)
		}
		return math.Cos(x), nil
	case FuncCosh:
		return math.Cosh(x), nil
	case FuncDeg:
		return x * degPerRad, nil
	case FuncErf:
		return math.Erf(x), nil
	case FuncErfc:
		return math.Erfc(x), nil
	case FuncExp:
		return math.Exp(x), nil
	case FuncExp2:
		return math.Exp2(x), nil
	case FuncFloor:
		return math.Floor(x), nil
	case FuncIsinf:
		return b2f(math.IsInf(x, 0)), nil
	case FuncIsnan:
		return b2f(math.IsNaN(x)), nil
	case FuncLog, FuncLog2, FuncLog10:
		switch {
		case x == 0:
			return 0, divzero("log")
		case x < 0:
			return 0, invalid("log", x)
		}
		switch f {
		case FuncLog2:
			return math.Log2(x), nil
		case FuncLog10:
			return math.Log10(x), nil
		}
		return math.Log(x), nil
	case FuncRad:
		return x * radPerDeg, nil
	case FuncRound:
		return math.Round(x), nil
	case FuncSgn:
		return b2f(0 < x) - b2f(x < 0), nil
	case FuncSin:
		if math.IsInf(x, 0) {
			return 0, invalid("sin", x)
		}
		return math.Sin(x), nil
	case FuncSinh:
		return math.Sinh(x), nil
	case FuncSqrt:
		if x < 0 {
			return 0, invalid("sqrt", x)
		}
		return math.Sqrt(x), nil
	case FuncTan:
		if math.IsInf(x, 0) {
			return 0, invalid("tan", x)
		}
		return math.Tan(x), nil
	case FuncTanh:
		return math.Tanh(x), nil
	case FuncTgamma:
		switch {
		case x == 0:
			return 0, divzero("tgamma")
		case math.IsInf(x, -1), x < 0 && x == math.Trunc(x):
			return 0, invalid("tgamma", x)
		}
		return math.Gamma(x), nil
	default:
		panic("matheval: " + f.String() + " is not a unary function")
	}
}

// call2 applies a binary function.
func call2(f Func, x, y float64) (float64, error) {
	switch f {
	case FuncAdd:
		return x + y, nil
	case FuncSub:
		return x - y, nil
	case FuncMul:
		return x * y, nil
	case FuncDiv:
		if y == 0 {
			return 0, divzero("")
		}
		return x / y, nil
	case FuncMod:
		if y == 0 {
			return 0, divzero("modulo")
		}
		if math.IsInf(x, 0) {
			return 0, &DomainError{Reason: ModuloWithInfinity, Func: "modulo", X: x, Arg: 1}
		}
		return math.Mod(x, y), nil
	case FuncPow:
		return pow(x, y)
	case FuncLess:
		return b2f(x < y), nil
	case FuncLessEq:
		return b2f(x <= y), nil
	case FuncGreater:
		return b2f(x > y), nil
	case FuncGreaterEq:
		return b2f(x >= y), nil
	case FuncEq:
		return b2f(x == y), nil
	case FuncNotEq:
		return b2f(x != y), nil
	case FuncAnd:
		return b2f(x != 0 && y != 0), nil
	case FuncOr:
		return b2f(x != 0 || y != 0), nil
	case FuncAtan2:
		return math.Atan2(x, y), nil
	case FuncMax:
		// fmax: NaN only when both are NaN.
		switch {
		case math.IsNaN(x):
			return y, nil
		case math.IsNaN(y):
			return x, nil
		}
		return math.Max(x, y), nil
	case FuncMin:
		switch {
		case math.IsNaN(x):
			return y, nil
		case math.IsNaN(y):
			return x, nil
		}
		return math.Min(x, y), nil
	default:
		panic("matheval: " + f.String() + " is not a binary function")
	}
}

// pow computes x**y. A negative base is outside the domain for every finite
// exponent, and a zero base is a pole for negative exponents and undefined
// for a zero exponent.
func pow(x, y float64) (float64, error) {
	switch {
	case x < 0 && !math.IsInf(y, 0):
		return 0, invalid("pow", x)
	case x == 0 && y < 0:
		return 0, divzero("pow")
	case x == 0 && y == 0:
		return 0, &DomainError{Reason: InvalidDomain, Func: "pow", X: y, Arg: 2}
	}
	return math.Pow(x, y), nil
}

// call3 applies a ternary function.
func call3(f Func, x, y, z float64) (float64, error) {
	switch f {
	case FuncIfElse:
		if x != 0 {
			return y, nil
		}
		return z, nil
	default:
		panic("matheval: " + f.String() + " is not a ternary function")
	}
}
