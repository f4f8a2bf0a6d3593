// Package io reads and writes ordered trees as JSON, YAML or TOML documents.
//
// # Overview
//
// Trees are exchanged as a flat node list plus an edge list. The same
// document shape is used by the CLI for input files, by the HTTP service for
// request bodies, and by the pipeline for cached results.
//
// # Format
//
//	{
//	  "nodes": [
//	    {"id": "app"},
//	    {"id": "auth", "label": "service"},
//	    {"id": "db"}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "auth"},
//	    {"from": "app", "to": "db"}
//	  ]
//	}
//
// Edges are applied in document order, so the order of a parent's edges is
// the order of its children. The YAML and TOML encodings use the same field
// names; in TOML the lists are arrays of tables ([[nodes]], [[edges]]).
//
// # Node Fields
//
// Required:
//   - id: Unique, non-empty identifier without control characters
//
// Optional:
//   - label: Label used by label affinity and text output
//   - meta: Freeform object carried through matching unchanged
//
// Documents are not validated as forests on read; the matching layer
// reports cycles and multiple parents with its own error codes.
package io
