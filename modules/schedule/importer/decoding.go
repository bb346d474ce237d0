package importer

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodingOptions configure how raw source bytes are decoded before parsing.
type DecodingOptions struct {
	// TolerateLineEndings accepts \r\n and bare \r (classic Mac exports) as row
	// separators in addition to \n.
	TolerateLineEndings bool
}

func DefaultDecodingOptions() DecodingOptions {
	return DecodingOptions{TolerateLineEndings: true}
}

// NewDecodingReader wraps r so that a leading UTF-8 BOM is dropped and, when
// configured, line endings are normalized to \n.
func NewDecodingReader(r io.Reader, opts DecodingOptions) io.Reader {
	t := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	if opts.TolerateLineEndings {
		t = transform.Chain(t, lineEndings{})
	}
	return transform.NewReader(r, t)
}

type lineEndings struct{ transform.NopResetter }

func (lineEndings) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c != '\r' {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		if nSrc+1 >= len(src) && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = '\n'
		nDst++
		nSrc++
		if nSrc < len(src) && src[nSrc] == '\n' {
			nSrc++
		}
	}
	return nDst, nSrc, nil
}
