package httpclient

import (
	"bytes"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// NormalizeBody decodes a response body to UTF-8. When the Content-Type header
// does not declare a charset the encoding is sniffed from the bytes. Bodies
// that are already UTF-8, or that fail detection, are returned unchanged.
func NormalizeBody(body []byte, contentType string) []byte {
	if len(body) == 0 {
		return body
	}

	ct := strings.ToLower(contentType)
	if !strings.Contains(ct, "charset") {
		detector := chardet.NewTextDetector()
		best, err := detector.DetectBest(body)
		if err != nil {
			return body
		}
		ct = "text/plain; charset=" + strings.ToLower(best.Charset)
	}
	if strings.Contains(ct, "utf-8") || strings.Contains(ct, "utf8") {
		return body
	}

	reader, err := charset.NewReader(bytes.NewReader(body), ct)
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return body
	}
	return decoded
}
