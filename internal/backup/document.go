// Package backup serializes the vault to a versioned XML document and
// restores such documents back into the live stores. Two format
// generations are supported: the current one is written and read, the
// legacy one is read-only.
package backup

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/csvx"
	"github.com/dmitrijs2005/passvault/internal/vault/models"
)

// Format version markers as written to the version element.
const (
	VersionLegacy  = "1"
	VersionCurrent = "2"
)

// Document is the parsed, still-encrypted form of one backup file. Entry
// and detail blocks hold one encoded (possibly encrypted) row per element;
// the tag block travels as a single unit. Nothing is decrypted at parse
// time, so metadata can be inspected without a seed.
type Document struct {
	Version     string
	AppVersion  string
	Created     time.Time
	AutoCreated bool

	// Checksum is the seed encrypted with itself; empty means the row
	// blocks are plaintext.
	Checksum string

	HasData    bool
	EntryRows  []string
	DetailRows []string

	// TagsBlob is the whole tag block as one unit: a multi-row plaintext
	// blob, or a single ciphertext when the document is encrypted.
	TagsBlob string

	HasSettings     bool
	Settings        map[string]string
	QualityGateRows []string
}

// Encrypted reports whether the document's rows are encrypted.
func (d *Document) Encrypted() bool {
	return d.Checksum != ""
}

type xmlDocument struct {
	XMLName    xml.Name       `xml:"password_vault"`
	Metadata   *xmlMetadata   `xml:"metadata"`
	Encryption *xmlEncryption `xml:"encryption"`
	Data       *xmlData       `xml:"data"`
	Settings   *xmlSettings   `xml:"settings"`
}

type xmlMetadata struct {
	Version     string `xml:"version"`
	AppVersion  string `xml:"app_version"`
	Created     int64  `xml:"created"`
	AutoCreated bool   `xml:"auto_created"`
}

// xmlEncryption is the legacy location of the seed checksum.
type xmlEncryption struct {
	Checksum string `xml:"checksum"`
}

type xmlData struct {
	Checksum string    `xml:"checksum,attr,omitempty"`
	Tags     *xmlBlock `xml:"tags"`
	Entries  *xmlBlock `xml:"entries"`
	Details  *xmlBlock `xml:"details"`
}

// xmlBlock is a row-terminator-joined sequence of encoded rows, optionally
// annotated with human-readable column names.
type xmlBlock struct {
	Header string `xml:"header,attr,omitempty"`
	Rows   string `xml:",chardata"`
}

type xmlSettings struct {
	Items        []xmlSettingItem `xml:"item"`
	QualityGates *xmlBlock        `xml:"quality_gates"`
}

type xmlSettingItem struct {
	Setting string `xml:"setting,attr"`
	Value   string `xml:"value,attr"`
}

// Parse decodes raw backup bytes into a Document, dispatching on the
// declared format version. A missing or unknown version marker selects the
// legacy grammar, whose row blocks may carry indentation that is trimmed
// away. Malformed markup and a missing metadata element are fatal.
func Parse(data []byte) (*Document, error) {
	var raw xmlDocument
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrXml, err)
	}
	if raw.Metadata == nil {
		return nil, fmt.Errorf("%w: missing metadata element", common.ErrXml)
	}

	doc := &Document{
		Version:     raw.Metadata.Version,
		AppVersion:  raw.Metadata.AppVersion,
		Created:     time.UnixMilli(raw.Metadata.Created),
		AutoCreated: raw.Metadata.AutoCreated,
	}

	legacy := doc.Version != VersionCurrent
	if legacy {
		doc.Version = VersionLegacy
		if raw.Encryption != nil {
			doc.Checksum = raw.Encryption.Checksum
		}
	} else if raw.Data != nil {
		doc.Checksum = raw.Data.Checksum
	}

	// The legacy writer indented rows inside each block.
	if raw.Data != nil && raw.Data.Entries != nil && raw.Data.Details != nil {
		doc.HasData = true
		doc.EntryRows = splitBlock(raw.Data.Entries, legacy)
		doc.DetailRows = splitBlock(raw.Data.Details, legacy)
		if raw.Data.Tags != nil {
			doc.TagsBlob = strings.TrimSpace(raw.Data.Tags.Rows)
		}
	}

	if raw.Settings != nil && !legacy {
		doc.HasSettings = true
		doc.Settings = make(map[string]string, len(raw.Settings.Items))
		for _, item := range raw.Settings.Items {
			doc.Settings[item.Setting] = item.Value
		}
		doc.QualityGateRows = splitBlock(raw.Settings.QualityGates, false)
	}

	return doc, nil
}

func splitBlock(block *xmlBlock, trim bool) []string {
	if block == nil {
		return nil
	}
	return csvx.SplitRows(block.Rows, trim)
}

// Marshal serializes the document in the current format. Legacy documents
// cannot be written back.
func (d *Document) Marshal() ([]byte, error) {
	if d.Version != VersionCurrent {
		return nil, fmt.Errorf("%w: cannot write format version %q", common.ErrBackup, d.Version)
	}

	raw := xmlDocument{
		Metadata: &xmlMetadata{
			Version:     d.Version,
			AppVersion:  d.AppVersion,
			Created:     d.Created.UnixMilli(),
			AutoCreated: d.AutoCreated,
		},
		Data: &xmlData{
			Checksum: d.Checksum,
			Tags:     &xmlBlock{Header: models.TagColumns(), Rows: d.TagsBlob},
			Entries:  &xmlBlock{Header: models.EntryColumns(), Rows: csvx.JoinRows(d.EntryRows)},
			Details:  &xmlBlock{Header: models.DetailColumns(), Rows: csvx.JoinRows(d.DetailRows)},
		},
	}

	if d.HasSettings {
		s := &xmlSettings{}
		for _, key := range sortedKeys(d.Settings) {
			s.Items = append(s.Items, xmlSettingItem{Setting: key, Value: d.Settings[key]})
		}
		if d.QualityGateRows != nil {
			s.QualityGates = &xmlBlock{
				Header: models.QualityGateColumns(),
				Rows:   csvx.JoinRows(d.QualityGateRows),
			}
		}
		raw.Settings = s
	}

	out, err := xml.MarshalIndent(&raw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackup, err)
	}
	return append([]byte(xml.Header), out...), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
