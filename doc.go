// Package plotexpr compiles single-variable arithmetic expressions to postfix
// and samples them for plotting.
//
// Expressions use numerals, the variable x, the binary operators + - * / ^,
// and parentheses. Normalize accepts the way people write math in a text box,
// so "2x(x+1)" and "-x^2" work once normalized; Parse does both steps.
//
// A compiled *Postfix is immutable. Compile once, then evaluate it at one
// point with Eval or At, or at many evenly spaced points with Sample:
//
//	p, err := plotexpr.Parse("x^2 - 3x + 2")
//	if err != nil {
//		// ...
//	}
//	pts, err := p.Sample(ctx, 0, 1, 10)
package plotexpr
