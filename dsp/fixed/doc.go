// Package fixed provides the Q15 fixed-point primitives used by the pitch
// detector and the pitch shifter.
//
// A Q15 value is an int16 holding one sign bit and 15 fractional bits, so
// 32767 represents 0.99997 and -32768 represents -1.0. Products are formed in
// a 32-bit accumulator and rescaled by 15 bits with rounding.
//
// Floating point never enters sample-domain math inside the engines; the
// conversion helpers in this package exist for the system edges (file I/O,
// reference measurements, tests).
package fixed
