package session

import (
	"fmt"
	"io"
	"strings"

	gdencoding "github.com/gdamore/encoding"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// charsets maps normalized charset names to their encodings. UTF-8 is
// absent: output passes through untouched.
var charsets = map[string]encoding.Encoding{
	"ascii":       gdencoding.ASCII,
	"usascii":     gdencoding.ASCII,
	"iso88591":    gdencoding.ISO8859_1,
	"latin1":      gdencoding.ISO8859_1,
	"iso885915":   charmap.ISO8859_15,
	"latin9":      charmap.ISO8859_15,
	"koi8r":       charmap.KOI8R,
	"windows1252": charmap.Windows1252,
	"cp1252":      charmap.Windows1252,
}

// newEncodedWriter wraps w so output is transcoded into the named charset,
// with unrepresentable runes replaced by a substitution character. An empty
// name or a UTF-8 alias returns w unchanged.
func newEncodedWriter(w io.Writer, name string) (io.Writer, error) {
	key := normalizeCharset(name)
	if key == "" || key == "utf8" {
		return w, nil
	}
	enc, ok := charsets[key]
	if !ok {
		return nil, fmt.Errorf("unknown charset %q", name)
	}
	return transform.NewWriter(w, encoding.ReplaceUnsupported(enc.NewEncoder())), nil
}

func normalizeCharset(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == '-' || r == '_' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
