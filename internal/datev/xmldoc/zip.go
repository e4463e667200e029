package xmldoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// ZipEntry is one file carried in the export container.
type ZipEntry struct {
	Name string
	Data []byte
}

// BuildZip assembles the export container: the invoice PDFs, the per-invoice
// XML files (unless the transfer is BEDI, which ships PDFs only) and the
// documents.xml catalogue.
func BuildZip(docs []ArchiveDocument, files []ZipEntry, mode Mode, now time.Time) ([]byte, error) {
	catalogue, err := BuildArchive(docs, mode, now).Marshal()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) error {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write zip entry %s: %w", name, err)
		}
		return nil
	}
	if err := write("document.xml", catalogue); err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := write(f.Name, f.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip container: %w", err)
	}
	return buf.Bytes(), nil
}
