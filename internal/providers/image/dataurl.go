package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// encodeChunkSize bounds how many raw bytes are encoded per pass. Large
// renders arrive as multi-megabyte buffers; encoding them in ~32KB chunks
// keeps every intermediate allocation small. The size must be a multiple of
// 3: base64 pads any shorter tail, and padding is only legal at the very end
// of the stream, so an unaligned chunk would corrupt every image larger than
// one chunk.
const encodeChunkSize = 32766

// EncodeDataURL base64-encodes raw image bytes into a canonical data: URL.
func EncodeDataURL(mime string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")

	// Chunks must stay a multiple of 3 so no padding appears mid-stream.
	for off := 0; off < len(data); off += encodeChunkSize {
		end := off + encodeChunkSize
		if end > len(data) {
			end = len(data)
		}
		b.WriteString(base64.StdEncoding.EncodeToString(data[off:end]))
	}
	return b.String()
}

// DecodeDataURL reverses EncodeDataURL, returning the MIME type and raw bytes.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, errors.New("not a data url")
	}
	rest := dataURL[len("data:"):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, errors.New("data url is not base64 encoded")
	}
	mime := rest[:sep]
	payload := rest[sep+len(";base64,"):]
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data url payload: %w", err)
	}
	return mime, data, nil
}
