package xmldoc_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/datev/xmldoc"
)

func archiveDocs() []xmldoc.ArchiveDocument {
	return []xmldoc.ArchiveDocument{
		{
			Move:    domain.Move{Name: "INV/2026/0042", MoveType: domain.MoveOutInvoice},
			GUID:    "guid-1",
			PDFPath: "INV_2026_0042.pdf",
			XMLPath: "INV_2026_0042.xml",
		},
		{
			Move:    domain.Move{Name: "BILL/2026/0007", MoveType: domain.MoveInInvoice},
			GUID:    "guid-2",
			PDFPath: "BILL_2026_0007.pdf",
			XMLPath: "BILL_2026_0007.xml",
		},
	}
}

func TestBuildArchiveStandard(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)
	archive := xmldoc.BuildArchive(archiveDocs(), xmldoc.ModeStandard, now)

	assert.Equal(t, "2026-03-01T10:30:00", archive.Header.Date)
	require.Len(t, archive.Content.Documents, 2)

	first := archive.Content.Documents[0]
	assert.Empty(t, first.GUID)
	require.Len(t, first.Extensions, 2)
	assert.Equal(t, "Invoice", first.Extensions[0].Type)
	assert.Equal(t, "INV_2026_0042.xml", first.Extensions[0].Datafile)
	require.NotNil(t, first.Extensions[0].Property)
	assert.Equal(t, "Outgoing", first.Extensions[0].Property.Value)
	assert.Equal(t, "File", first.Extensions[1].Type)
	assert.Equal(t, "INV_2026_0042.pdf", first.Extensions[1].Name)

	second := archive.Content.Documents[1]
	assert.Equal(t, "Incoming", second.Extensions[0].Property.Value)
}

func TestBuildArchiveBEDI(t *testing.T) {
	archive := xmldoc.BuildArchive(archiveDocs(), xmldoc.ModeBEDI, time.Now())

	require.Len(t, archive.Content.Documents, 2)
	first := archive.Content.Documents[0]
	assert.Equal(t, "guid-1", first.GUID)
	require.Len(t, first.Extensions, 1)
	assert.Equal(t, "File", first.Extensions[0].Type)
	assert.Equal(t, "INV_2026_0042.pdf", first.Extensions[0].Name)
}

func TestBuildZip(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)
	files := []xmldoc.ZipEntry{
		{Name: "INV_2026_0042.xml", Data: []byte("<invoice/>")},
		{Name: "INV_2026_0042.pdf", Data: []byte("%PDF-1.4")},
	}

	data, err := xmldoc.BuildZip(archiveDocs()[:1], files, xmldoc.ModeStandard, now)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	assert.Equal(t, "document.xml", zr.File[0].Name)
	assert.Equal(t, "INV_2026_0042.xml", zr.File[1].Name)
	assert.Equal(t, "INV_2026_0042.pdf", zr.File[2].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	catalogue, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(catalogue), "<archive ")
	assert.Contains(t, string(catalogue), `datafile="INV_2026_0042.xml"`)
}
