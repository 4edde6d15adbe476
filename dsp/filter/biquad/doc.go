// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. A [Chain] is a
// fixed-capacity cascade whose unused slots hold [Identity] coefficients, so
// the number of active sections can change at run time without allocating.
//
// This package provides the processing runtime and the analytic response
// only. Coefficient design lives in dsp/filter/design.
package biquad
