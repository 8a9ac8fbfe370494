package download

import (
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// filenameFromDisposition extracts the file name from a Content-Disposition
// header value.
//
// Bandcamp sends raw UTF-8 inside the quoted filename parameter, which is
// accepted as long as it is valid UTF-8. A filename* parameter (RFC 5987)
// wins over filename when both are present. The result is reduced to its
// final path element; "" means no usable name was found.
func filenameFromDisposition(value string) (string, bool) {
	if !utf8.ValidString(value) {
		return "", false
	}

	var name string
	if _, params, err := mime.ParseMediaType(value); err == nil {
		name = params["filename"]
	} else {
		name = scanFilename(value)
	}

	name = filepath.Base(filepath.FromSlash(strings.TrimSpace(name)))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return "", true
	}
	return name, true
}

// scanFilename is the lenient fallback for headers mime.ParseMediaType
// rejects: it takes the first "filename=" parameter verbatim.
func scanFilename(value string) string {
	for part := range strings.SplitSeq(value, ";") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "filename="); ok {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}
