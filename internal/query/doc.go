// Package query looks up nodes and values in a document.
//
// Two syntaxes are supported. Dotted paths name groups and index arrays:
//
//	robot.joints[1].id
//
// Expressions starting with "$" are RFC 9535 JSONPath and may match many
// nodes:
//
//	$.robot.joints[*].id
//	$..name
//
// Dotted paths keep the document's value kinds. JSONPath results come from a
// JSON rendering of the document, so every number is a float64.
package query
