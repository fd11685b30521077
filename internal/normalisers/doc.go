// Package normalisers provides implementations of the Normaliser interface
// for various source formats. Each normaliser converts one declared asset
// type to the canonical markdown representation all downstream chunking
// and retrieval operates on.
//
// Normalisers are registered with the Registry at startup and selected by
// declared asset type.
package normalisers
