// Package examples assembles complete server models from the model, types
// and datasource packages.
//
// Builder wraps the construction primitives and collects their failures
// into a single ConstructionError, so a model definition is checked in one
// pass and the caller decides once whether to abort.
//
// NewEnumerationModel is the reference model: two custom enumeration types,
// one sparse and one dense, each with a variable whose value cycles through
// the enumeration's labels on every read.
package examples
