// Package config implements a format-agnostic configuration document: a
// tree of groups, arrays and scalar values, navigated and mutated through
// stack-based cursors.
//
// # Document Model
//
// A Data owns every node of one tree in an append-only arena. Nodes are
// addressed by NodeIdx, never by pointer, so a position captured in a
// DataPointer stays valid while the tree grows. Property names are interned
// into Labels by the document's LabelTable.
//
// Node shapes are fixed once established:
//   - MapNode: labeled scalar values and labeled child groups/arrays
//   - ArrayNode: an ordered list of items
//   - ValueNode: an array item holding a single scalar
//
// Scalars are stored as Variants (string, int, float, bool). Extraction is
// checked: a bool never reads as an int, a string never reads as a number.
//
// # Cursors
//
// Reader is read-only and silent. ReaderWriter adds writes and an error
// buffer: required lookups that fail append a message instead of returning
// an error, so a batch of reads is checked once.
//
//	rw := config.NewReaderWriter()
//	rw.WriteArray("joints")
//	for i := 0; i < 3; i++ {
//	    rw.AddArrayItem()
//	    rw.SetValue("id", i)
//	    rw.EndArrayItem()
//	}
//	rw.EndArray()
//
//	rw.ReadArray("joints", config.Required)
//	for rw.Next() {
//	    var id int
//	    rw.Value("id", &id, config.Required)
//	}
//	rw.EndArray()
//	if rw.HasError() {
//	    log.Fatal(rw.ErrorMessage())
//	}
//
// Every successful Read/Write must be paired with one End. End with no open
// scope returns false and never moves the cursor; Next outside an array
// returns false. EnterGroup/EnterArray return a Scope token whose Close
// rejects double or out-of-order closes.
//
// # Formats
//
// YAML is built in (LoadFromYAMLFile, ToYAMLString). Other formats plug in
// through the Decoder and Encoder interfaces and LoadFromFile. Sync reloads
// the last file when its modification time changes.
//
// # Thread Safety
//
// None. A document and its cursors belong to one goroutine at a time.
package config
