package reader

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeSource strips and interprets a byte-order mark at the start of raw
// source bytes, transcoding UTF-16 (BE or LE) to UTF-8 when one is present
// and passing UTF-8/BOM-less input through unchanged. Grounded on the
// teacher's own source-loading path, which accepts script files saved by
// editors that default to a BOM; `load`/`require`'d files get the same
// tolerance here (SPEC_FULL.md's DOMAIN STACK: BOM-aware source decoding).
func DecodeSource(raw []byte) (string, error) {
	bomAware := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(bomAware, raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// DecodeSourceReader is DecodeSource for an io.Reader, used when the caller
// already has an open file handle rather than a byte slice.
func DecodeSourceReader(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return DecodeSource(raw)
}
