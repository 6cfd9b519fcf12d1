// Package matheval parses, simplifies, and evaluates arithmetic and boolean
// expressions over float64.
//
// The syntax is the usual infix notation with C-like operators. From most
// to least binding:
//
//	x ** y                exponentiation, right-associative
//	x * y, x / y, x % y
//	x + y, x - y
//	x < y, x <= y, x > y, x >= y
//	x == y, x != y
//	x && y, x || y        one level; and and or bind equally
//
// Prefix +, -, and ! apply to a single term, so "-2 ** 2" is (-2)**2.
// Booleans are 0 and 1, and any nonzero value is true. Named functions
// such as sin(x), atan2(y, x), and ifelse(c, a, b) always take
// parenthesized arguments; see Funcs for the full list. The names e,
// epsilon, phi, and pi are constants, inf and nan are numbers, and any
// other name is a variable resolved when the expression is evaluated.
//
// Parse an expression once, optionally Fold its constant subexpressions,
// and Eval it with as many symbol tables as needed. Parsed expressions are
// never modified, so they can be evaluated concurrently.
//
// Every function checks its domain instead of returning NaN: sqrt(-1),
// 1/0, and log(0) are errors. KindOf classifies any error from this
// package.
package matheval
