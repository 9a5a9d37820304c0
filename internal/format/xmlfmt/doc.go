// Package xmlfmt reads and writes configuration documents as XML.
//
// # Mapping
//
// Decoding follows a small set of shape rules:
//   - The root element becomes a group named after it
//   - Attributes become values, with their type inferred by config.ParseScalar
//   - A child that carries only text becomes a value
//   - A child that occurs more than once, or is listed in Options.ArrayElements,
//     becomes an array
//   - Any other child becomes a group
//   - Text next to attributes or children is stored under Options.TextKey
//
// Encoding is the inverse: values become attributes, groups become nested
// elements and arrays become repeated elements. A one-item array is written
// as a single element, so it only reads back as an array when its name is
// in ArrayElements.
//
// # Usage Example
//
//	rw := config.NewReaderWriter()
//	if !xmlfmt.LoadFile(rw, "robot.xml") {
//	    fmt.Println(rw.ErrorMessage())
//	}
//	fmt.Print(xmlfmt.ToString(rw))
//
// The sdf package builds on Options to describe the SDF dialect.
package xmlfmt
