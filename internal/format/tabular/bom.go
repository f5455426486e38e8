package tabular

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// stripBOM wraps r in a transform.Reader that strips a leading UTF-8
// byte-order mark, the wrinkle every CSV dialect sniffer in production
// eventually has to handle.
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
