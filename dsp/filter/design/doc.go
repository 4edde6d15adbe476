// Package design provides IIR coefficient designers for the equalizer
// bands.
//
// Peak, Lowpass and Highpass follow the RBJ audio EQ cookbook. Cut filters
// are built as a fixed array of [MaxCutSections] biquads: either the
// sections of an even-order Butterworth prototype or a stack of identical
// second-order Butterworth sections. Unused sections are identity.
//
// Every designer clamps its inputs into a usable range, so any finite or
// non-finite argument yields finite coefficients.
package design
