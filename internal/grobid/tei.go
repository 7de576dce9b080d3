// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grobid

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// flatText flattens an element to its complete character data, markup
// children included, the way a reader would see it.
type flatText struct {
	Text string
}

func (t *flatText) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(tok)
		}
	}
	t.Text = sb.String()
	return nil
}

// teiDoc maps the parts of a GROBID TEI document the pipeline consumes.
// Unqualified tag names match regardless of the TEI namespace.
type teiDoc struct {
	Header struct {
		Title    flatText `xml:"fileDesc>titleStmt>title"`
		Abstract flatText `xml:"profileDesc>abstract"`
	} `xml:"teiHeader"`
	Text struct {
		Body flatText `xml:"body"`
		Back struct {
			Refs []teiBiblStruct `xml:"div>listBibl>biblStruct"`
		} `xml:"back"`
	} `xml:"text"`
}

// teiBiblStruct is one bibliography entry. The article-level title lives
// under analytic, the journal or book title under monogr; analytic comes
// first in document order when present.
type teiBiblStruct struct {
	Analytic *teiTitleHolder `xml:"analytic"`
	Monogr   *teiTitleHolder `xml:"monogr"`
}

type teiTitleHolder struct {
	Title *flatText `xml:"title"`
}

// firstTitle returns the text of the entry's first title element in
// document order. An entry whose first title element is empty stays
// empty; the monograph title is only consulted when analytic has no
// title element at all.
func (b *teiBiblStruct) firstTitle() (string, bool) {
	for _, h := range []*teiTitleHolder{b.Analytic, b.Monogr} {
		if h != nil && h.Title != nil {
			return h.Title.Text, true
		}
	}
	return "", false
}

// parseTEI extracts the paper fields from a TEI document: the header
// title, the flattened abstract and body text, and one reference title
// per bibliography entry. Entries without a usable title are dropped.
func parseTEI(raw []byte) (*types.Paper, error) {
	var doc teiDoc
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed TEI document: %w", err)
	}

	p := &types.Paper{
		Title:    strings.TrimSpace(doc.Header.Title.Text),
		Abstract: strings.TrimSpace(doc.Header.Abstract.Text),
		Body:     strings.TrimSpace(doc.Text.Body.Text),
	}
	for _, ref := range doc.Text.Back.Refs {
		title, ok := ref.firstTitle()
		if !ok {
			continue
		}
		if title = strings.TrimSpace(title); title == "" {
			continue
		}
		p.References = append(p.References, title)
	}
	return p, nil
}
