package zip

import (
	"archive/zip"
	"bytes"
)

// Entry is one file inside an export archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive packs the entries into an in-memory zip. Entries that fail to
// write are skipped rather than aborting the whole export.
func Archive(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		if len(entry.Data) == 0 {
			continue
		}
		w, err := zw.Create(entry.Name)
		if err != nil {
			continue
		}
		if _, err := w.Write(entry.Data); err != nil {
			continue
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
