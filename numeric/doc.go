// Package numeric implements the engine's numeric model.
//
// Every host number is reduced to one of two variants: Integral (int64) or
// Floating (float64). Mixed arithmetic promotes to Floating; reading a
// Floating value as an integer truncates toward zero.
//
// Conversion from host types happens once per access site through a
// Normalizer, which memoizes the converter picked for the first observed
// dynamic type and re-picks only when that type changes.
package numeric
