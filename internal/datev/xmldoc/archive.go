package xmldoc

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// ArchiveDocument describes one invoice inside the documents.xml catalogue.
type ArchiveDocument struct {
	Move    domain.Move
	GUID    string // document link GUID, used in BEDI transfers
	PDFPath string // file name of the invoice PDF inside the zip
	XMLPath string // file name of the invoice XML inside the zip
}

// Archive is the root element of documents.xml.
type Archive struct {
	XMLName        xml.Name `xml:"archive"`
	XMLNS          string   `xml:"xmlns,attr"`
	XMLNSXSI       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	Version          string `xml:"version,attr"`
	GeneratingSystem string `xml:"generatingSystem,attr"`

	Header  archiveHeader `xml:"header"`
	Content content       `xml:"content"`
}

type archiveHeader struct {
	Date        string `xml:"date"`
	Description string `xml:"description"`
}

type content struct {
	Documents []document `xml:"document"`
}

type document struct {
	GUID       string      `xml:"guid,attr,omitempty"`
	Extensions []extension `xml:"extension"`
}

type extension struct {
	Type     string             `xml:"xsi:type,attr"`
	Name     string             `xml:"name,attr,omitempty"`
	Datafile string             `xml:"datafile,attr,omitempty"`
	Property *extensionProperty `xml:"property,omitempty"`
}

type extensionProperty struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// BuildArchive renders the documents.xml catalogue. In BEDI mode each entry
// references only the PDF by GUID; otherwise it pairs the invoice XML with
// its PDF and records the invoice direction.
func BuildArchive(docs []ArchiveDocument, mode Mode, now time.Time) *Archive {
	archive := &Archive{
		XMLNS:            documentNS,
		XMLNSXSI:         xsiNS,
		SchemaLocation:   documentSchema,
		Version:          "5.0",
		GeneratingSystem: "Ledger-Exchange Software",
		Header: archiveHeader{
			Date:        now.Format("2006-01-02T15:04:05"),
			Description: "Rechnungsexport",
		},
	}
	for _, doc := range docs {
		entry := document{}
		if mode == ModeBEDI {
			entry.GUID = doc.GUID
			entry.Extensions = []extension{{Type: "File", Name: doc.PDFPath}}
		} else {
			entry.Extensions = []extension{
				{
					Type:     "Invoice",
					Datafile: doc.XMLPath,
					Property: &extensionProperty{Key: "InvoiceType", Value: directionFor(doc.Move.MoveType)},
				},
				{Type: "File", Name: doc.PDFPath},
			}
		}
		archive.Content.Documents = append(archive.Content.Documents, entry)
	}
	return archive
}

func directionFor(t domain.MoveType) string {
	if t == domain.MoveOutInvoice || t == domain.MoveOutRefund {
		return "Outgoing"
	}
	return "Incoming"
}

// Marshal renders documents.xml with XML declaration and indentation.
func (a *Archive) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal documents catalogue: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
