package config

import (
	"fmt"
	"os"
	"time"

	"github.com/muurk/confdoc/internal/logging"
)

// Decoder populates a fresh document through rw from serialized bytes.
// rw is positioned at the root of an empty document whose source is set.
type Decoder interface {
	Decode(raw []byte, rw *ReaderWriter) error
}

// Encoder serializes the subtree at p
type Encoder interface {
	Encode(p DataConstPointer) ([]byte, error)
}

// DecoderFunc adapts a function to Decoder
type DecoderFunc func(raw []byte, rw *ReaderWriter) error

// Decode calls f
func (f DecoderFunc) Decode(raw []byte, rw *ReaderWriter) error { return f(raw, rw) }

// formatName is used for log fields; decoders may implement it
type formatName interface {
	FormatName() string
}

func decoderName(dec Decoder) string {
	if n, ok := dec.(formatName); ok {
		return n.FormatName()
	}
	return fmt.Sprintf("%T", dec)
}

// LoadFromFile replaces the document with the content of path, decoded by
// dec. On failure the current tree is kept and an error is recorded. On
// success the cursor returns to the document root and Sync watches path.
func (rw *ReaderWriter) LoadFromFile(path string, dec Decoder) bool {
	if rw.refuseLimited() {
		return false
	}
	start := time.Now()
	info, err := os.Stat(path)
	if err != nil {
		rw.AddError(fmt.Sprintf("Cannot load '%s': %v", path, err))
		logging.LogLoadFailure(path, decoderName(dec), err)
		return false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		rw.AddError(fmt.Sprintf("Cannot load '%s': %v", path, err))
		logging.LogLoadFailure(path, decoderName(dec), err)
		return false
	}

	// the file is watched from here on, even if this content fails to
	// decode, so a later fix is picked up by Sync
	rw.filename = path
	rw.modTime = info.ModTime()
	rw.decoder = dec

	if !rw.load(raw, path, dec) {
		return false
	}
	logging.LogLoad(path, decoderName(dec), rw.data.Len(), rw.data.labels.Len(), time.Since(start))
	return true
}

// LoadFromBytes replaces the document with raw decoded by dec; source
// becomes the new document source.
func (rw *ReaderWriter) LoadFromBytes(raw []byte, source string, dec Decoder) bool {
	return rw.load(raw, source, dec)
}

// refuseLimited records an error when rw is confined to a subtree. Loading
// replaces the whole document, which a limited cursor must not reach.
func (rw *ReaderWriter) refuseLimited() bool {
	if !rw.limited() {
		return false
	}
	rw.AddError("Cannot load from a limited scope.")
	return true
}

func (rw *ReaderWriter) load(raw []byte, source string, dec Decoder) bool {
	if rw.refuseLimited() {
		return false
	}
	fresh := NewReaderWriter()
	fresh.SetSource(source)
	if err := dec.Decode(raw, fresh); err != nil {
		fresh.AddError(fmt.Sprintf("Cannot parse '%s': %s", source, messageOf(err)))
	}
	if fresh.HasError() {
		rw.errs.messages = append(rw.errs.messages, fresh.errs.messages...)
		logging.LogLoadFailure(source, decoderName(dec), fresh.Err())
		return false
	}
	rw.data.replaceWith(fresh.data)
	rw.refresh()
	return true
}

// Sync reloads the document when the file given to LoadFromFile has a new
// modification time. It reports whether a reload happened; failures are
// recorded as errors and leave the tree untouched.
func (rw *ReaderWriter) Sync() bool {
	if rw.filename == "" || rw.decoder == nil {
		return false
	}
	info, err := os.Stat(rw.filename)
	if err != nil {
		rw.AddError(fmt.Sprintf("Cannot sync '%s': %v", rw.filename, err))
		return false
	}
	if info.ModTime().Equal(rw.modTime) {
		logging.LogSync(rw.filename, false, rw.modTime)
		return false
	}
	raw, err := os.ReadFile(rw.filename)
	if err != nil {
		rw.AddError(fmt.Sprintf("Cannot sync '%s': %v", rw.filename, err))
		return false
	}
	// one error per change: a broken file is not re-parsed until it changes again
	rw.modTime = info.ModTime()
	if !rw.load(raw, rw.filename, rw.decoder) {
		return false
	}
	logging.LogSync(rw.filename, true, rw.modTime)
	return true
}

// Filename returns the file watched by Sync, empty when none
func (rw *ReaderWriter) Filename() string { return rw.filename }
