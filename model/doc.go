// Package model holds the shared vocabulary of the derivation engine:
// the structured error taxonomy, the closed hash-function set, derivation
// configuration, and the record type produced for every entity.
//
// It is a leaf package with no dependencies on the pipeline stages, so every
// stage can report errors and exchange records through it without cycles.
package model
