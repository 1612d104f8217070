// Package conv provides checked integer conversions.
//
// Row lengths become uint32 sparse dimensions, and counts read back from
// wire frames become ints; both cross a width boundary that must not wrap.
package conv
