// Package decode turns the digit-reversed tokens written by the vibration
// sensor back into numeric readings.
//
// The sensor reverses the whole character sequence of every value it logs,
// sign and decimal point included: 12.5 is stored as "5.21" and -3 as "3-".
// Decode undoes the reversal and then accepts only plain signed decimals:
//
//	[+-]? digits [ . digits ]
//
// with at least one digit overall. Exponents, hex floats, Inf/NaN, digit
// separators and locale-specific points are rejected as ErrMalformed.
// Values too large for a float64 are rejected as ErrOutOfRange.
package decode
