// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// htmlBlocks are the elements that become one line of text each.
const htmlBlocks = "h1,h2,h3,h4,h5,h6,p,li,dt,dd,pre,blockquote"

// htmlText flattens an HTML document into lines. List items become "•"
// bullets so herb and preparation lists survive the conversion. Nested
// block elements are emitted once, by their outermost block.
func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Find("script,style,noscript").Remove()

	var lines []string
	doc.Find(htmlBlocks).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(htmlBlocks).Length() > 0 {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" && !strings.HasPrefix(text, "•") {
			text = "• " + text
		}
		lines = append(lines, text)
	})

	if len(lines) == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}

// pdfText extracts the plain text of every page, one page after another.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading PDF page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
