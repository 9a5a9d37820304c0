package sdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/confdoc/internal/config"
	"github.com/muurk/confdoc/internal/format/xmlfmt"
)

// RootElement is the document element of every SDF file
const RootElement = "sdf"

// arrayElements may repeat under their parent in SDF, so they are always
// decoded as arrays to give single and multiple occurrences the same shape.
var arrayElements = map[string]bool{
	"world":     true,
	"model":     true,
	"link":      true,
	"joint":     true,
	"include":   true,
	"visual":    true,
	"collision": true,
	"plugin":    true,
	"light":     true,
	"sensor":    true,
	"frame":     true,
	"actor":     true,
}

// attributes are the SDF names written as XML attributes; every other
// value is written as a text element.
var attributes = map[string]bool{
	"name":            true,
	"version":         true,
	"type":            true,
	"filename":        true,
	"relative_to":     true,
	"canonical_link":  true,
	"placement_frame": true,
	"attached_to":     true,
	"degrees":         true,
	"rotation_format": true,
}

// poseFields are the components of an SDF pose in text order
var poseFields = []string{"x", "y", "z", "roll", "pitch", "yaw"}

// Options returns the xmlfmt options describing the SDF dialect
func Options() xmlfmt.Options {
	return xmlfmt.Options{
		ArrayElements: arrayElements,
		Attributes:    attributes,
		Expand:        expandPose,
		Collapse:      collapsePose,
	}
}

// expandPose turns "x y z roll pitch yaw" pose text into child elements so
// that the pose decodes as a group. Poses that do not hold six numbers are
// left as text.
func expandPose(el *xmlfmt.Element) *xmlfmt.Element {
	if el.Name != "pose" || len(el.Children) != 0 {
		return el
	}
	fields := strings.Fields(el.Text)
	if len(fields) != len(poseFields) {
		return el
	}
	out := &xmlfmt.Element{Name: el.Name, Attrs: el.Attrs, Line: el.Line}
	for i, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return el
		}
		out.Children = append(out.Children, &xmlfmt.Element{Name: poseFields[i], Text: f, Line: el.Line})
	}
	return out
}

// collapsePose is the inverse of expandPose
func collapsePose(el *xmlfmt.Element) *xmlfmt.Element {
	if el.Name != "pose" || len(el.Children) != len(poseFields) {
		return el
	}
	text := make([]string, len(poseFields))
	for i, name := range poseFields {
		c := el.Children[i]
		if c.Name != name || !c.IsLeaf() {
			return el
		}
		text[i] = c.Text
	}
	return &xmlfmt.Element{Name: el.Name, Attrs: el.Attrs, Text: strings.Join(text, " ")}
}

// Decoder reads SDF. The attributes and children of the <sdf> element are
// written straight into the document root.
type Decoder struct{}

// FormatName implements the logging hook
func (Decoder) FormatName() string { return "sdf" }

// Decode implements config.Decoder
func (Decoder) Decode(raw []byte, rw *config.ReaderWriter) error {
	root, err := xmlfmt.Parse(raw)
	if err != nil {
		return config.NewAdapterError("invalid SDF", err)
	}
	if root.Name != RootElement {
		return config.NewAdapterError(fmt.Sprintf("line %d: root element must be <%s>, found <%s>", root.Line, RootElement, root.Name), nil)
	}
	version, ok := root.Attr("version")
	if !ok {
		return config.NewAdapterError(fmt.Sprintf("line %d: <%s> has no version attribute", root.Line, RootElement), nil)
	}
	if err := Options().DecodeContent(root, rw); err != nil {
		return err
	}
	// "1.10" must not read back as the float 1.1
	rw.SetString("version", version)
	return nil
}

// Encoder writes the document root as an <sdf> element
type Encoder struct{}

// Encode implements config.Encoder
func (Encoder) Encode(p config.DataConstPointer) ([]byte, error) {
	if !p.Valid() || p.Type() != config.MapNode {
		return nil, config.NewAdapterError("SDF documents must be encoded from a group", nil)
	}
	if _, ok := p.Value("version"); !ok {
		return nil, config.NewAdapterError("SDF documents need a version value", nil)
	}
	return xmlfmt.Encoder{Options: Options(), Root: RootElement}.Encode(p)
}

// Version returns the SDF version of a decoded document
func Version(p config.DataConstPointer) (string, bool) {
	v, ok := p.Value("version")
	if !ok {
		return "", false
	}
	return v.String(), true
}

// LoadFile loads an SDF file into rw; Sync keeps using the SDF decoder
func LoadFile(rw *config.ReaderWriter, path string) bool {
	return rw.LoadFromFile(path, Decoder{})
}

// ToString renders the current subtree of rw as SDF. Failures are recorded
// on rw and yield an empty string.
func ToString(rw *config.ReaderWriter) string {
	out, err := Encoder{}.Encode(rw.Data().Const())
	if err != nil {
		rw.AddError(err.Error())
		return ""
	}
	return string(out)
}
