// Package model implements the information-model address space.
//
// # Address Space
//
// The address space is a graph of typed nodes joined by typed, directed
// references:
//
//	Root
//	├── Objects
//	│   └── MyFolder                    (Object, FolderType)
//	│       ├── EnumValueTypeVariable   (Variable, bound to a DataSource)
//	│       └── LocalizedTextVariable   (Variable, bound to a DataSource)
//	└── Types
//	BaseDataType
//	└── Enumeration
//	    ├── CustomEnumValueType         (DataType)
//	    │   └── EnumValues              (Property, []ua.EnumValueType)
//	    └── CustomLocalizedTextType     (DataType)
//	        └── EnumStrings             (Property, []ua.LocalizedText)
//
// A new AddressSpace is seeded with the namespace-0 nodes it wires against
// (standard folders, data types, reference types, object and variable
// types). Namespace 1 is the application namespace; further namespaces are
// registered with AddNamespace.
//
// # Construction
//
// AddNode, AddReference and BindDataSource are the construction contract.
// AddFolder, AddDataTypeNode, AddEnumValuesProperty, AddEnumStringsProperty
// and AddVariableNode are built on top of them. Every construction failure
// matches ErrInvalidWiring. Construction is single-threaded; node ids are
// drawn from an Allocator owned by the caller.
//
// # Values
//
// ReadValue and WriteValue serve the Value attribute of variables. A
// variable either stores its value or is bound to a DataSource, whose Read
// and Write are then called for every request. Errors carry an OPC UA
// status code; StatusCode maps any error to one.
package model
