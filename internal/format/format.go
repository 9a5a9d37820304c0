package format

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muurk/confdoc/internal/config"
	"github.com/muurk/confdoc/internal/format/sdf"
	"github.com/muurk/confdoc/internal/format/xmlfmt"
	"github.com/muurk/confdoc/internal/logging"
	"go.uber.org/zap"
)

// Format pairs a decoder and an encoder with the file extensions they handle
type Format struct {
	Name       string
	Extensions []string
	Decoder    config.Decoder
	Encoder    config.Encoder
}

var formats = []Format{
	{
		Name:       "yaml",
		Extensions: []string{".yaml", ".yml"},
		Decoder:    config.YAMLDecoder{},
		Encoder:    config.YAMLEncoder{},
	},
	{
		Name:       "xml",
		Extensions: []string{".xml"},
		Decoder:    xmlfmt.Decoder{},
		Encoder:    xmlfmt.Encoder{},
	},
	{
		Name:       "sdf",
		Extensions: []string{".sdf", ".world"},
		Decoder:    sdf.Decoder{},
		Encoder:    sdf.Encoder{},
	},
}

// Names returns the registered format names, sorted
func Names() []string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the format called name
func Lookup(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range formats {
		if f.Name == name {
			return f, nil
		}
	}
	return Format{}, &config.ConfigError{
		Type:    config.ErrTypeMissing,
		Message: fmt.Sprintf("unknown format %q (known: %s)", name, strings.Join(Names(), ", ")),
	}
}

// ForPath picks the format from the extension of path
func ForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f, nil
			}
		}
	}
	return Format{}, &config.ConfigError{
		Type:    config.ErrTypeMissing,
		Message: fmt.Sprintf("no format for extension %q", ext),
		Source:  path,
	}
}

// Resolve returns the named format, or the one matching path when name is
// empty
func Resolve(name, path string) (Format, error) {
	if name != "" {
		return Lookup(name)
	}
	return ForPath(path)
}

// LoadFile loads path into rw with the format matching its extension.
// A path without a known extension records an error on rw.
func LoadFile(rw *config.ReaderWriter, path string) bool {
	f, err := ForPath(path)
	if err != nil {
		rw.AddError(err.Error())
		return false
	}
	logging.Debug("Selected format", zap.String("source", path), zap.String("format", f.Name))
	return rw.LoadFromFile(path, f.Decoder)
}

// Encode renders the subtree at p in the named format
func Encode(p config.DataConstPointer, name string) ([]byte, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return f.Encoder.Encode(p)
}
