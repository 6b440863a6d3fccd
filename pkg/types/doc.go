// Package types registers custom data types on top of the standard type
// hierarchy.
//
// A Registry issues each new enumeration type a node id from the model
// Allocator, records a DataTypeDescriptor whose binary encoding id equals
// the type id, and adds the type as a DataType node below Enumeration.
// The registry has a fixed capacity; registering beyond it fails with
// ErrRegistryFull.
//
// EnumDefinition carries an enumeration's labels either sparse (explicit
// values, the EnumValues property) or dense (position is value, the
// EnumStrings property). LookupEnumDefinition reads a definition back from
// the address space, so a reader has one decoding path for both.
package types
