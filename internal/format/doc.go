// Package format selects the document adapter for a file.
//
// Three formats are registered: yaml (.yaml, .yml), xml (.xml) and sdf
// (.sdf, .world). ForPath picks by extension and Lookup by name; LoadFile
// combines ForPath with config.ReaderWriter.LoadFromFile so a later Sync
// keeps using the same decoder.
package format
