// Package replacements parses clang-format's --output-replacements-xml
// reports into a single integer edit cost.
package replacements

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

// docStart marks the beginning of an XML document. Every batch invocation
// emits its own independent document, so a report stream may contain several
// of them back to back.
const docStart = "<?xml"

// MalformedReportError indicates report text that does not parse as a
// replacements document. It fails the enclosing evaluation only; the search
// drops the candidate and moves on.
type MalformedReportError struct {
	Err error
}

func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed replacements report: %v", e.Err)
}

func (e *MalformedReportError) Unwrap() error {
	return e.Err
}

// Parser accumulates edit cost across a stream of replacement documents.
// Text can be fed in arbitrary chunks; a fresh document-start marker closes
// the current document and resets the structural state, so nesting never
// leaks across batch boundaries. Feed all batches, then Close and read
// Total.
//
// Cost per record: the removed length plus the number of inserted
// characters.
type Parser struct {
	doc   []byte
	total int
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed consumes the next chunk of report text. Whenever a document-start
// marker appears after the first document, the buffered document is parsed
// and the parser's document state is reset before the new one begins. The
// pending document is buffered whole, so a marker split across chunk
// boundaries is still detected.
func (p *Parser) Feed(chunk string) error {
	p.doc = append(p.doc, chunk...)
	for {
		i := nextMarker(p.doc)
		if i < 0 {
			return nil
		}
		if err := p.endDocument(p.doc[:i]); err != nil {
			return err
		}
		p.doc = append(p.doc[:0], p.doc[i:]...)
	}
}

// Close finishes the final document. The parser may be reused afterwards
// with Reset.
func (p *Parser) Close() error {
	err := p.endDocument(p.doc)
	p.doc = p.doc[:0]
	return err
}

// Total returns the cost accumulated so far.
func (p *Parser) Total() int {
	return p.total
}

// Reset clears all state, including the running total.
func (p *Parser) Reset() {
	p.doc = p.doc[:0]
	p.total = 0
}

// nextMarker returns the index of a document-start marker that begins a NEW
// document, skipping the marker that opens the currently buffered one.
func nextMarker(doc []byte) int {
	first := bytes.Index(doc, []byte(docStart))
	if first < 0 {
		return -1
	}
	if len(bytes.TrimSpace(doc[:first])) == 0 {
		// This marker opens the current document; a boundary is only the
		// next one.
		next := bytes.Index(doc[first+len(docStart):], []byte(docStart))
		if next < 0 {
			return -1
		}
		return first + len(docStart) + next
	}
	return first
}

// endDocument parses one completed document and adds its cost to the total.
func (p *Parser) endDocument(doc []byte) error {
	if len(bytes.TrimSpace(doc)) == 0 {
		return nil
	}
	cost, err := documentCost(doc)
	if err != nil {
		return err
	}
	p.total += cost
	return nil
}

// documentCost sums removed length plus inserted characters over every
// <replacement> record in one XML document.
func documentCost(doc []byte) (int, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	total := 0
	inReplacement := false
	removed := 0
	inserted := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, &MalformedReportError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "replacement" {
				continue
			}
			inReplacement = true
			removed = 0
			inserted = 0
			for _, attr := range t.Attr {
				if attr.Name.Local != "length" {
					continue
				}
				n, err := strconv.Atoi(attr.Value)
				if err != nil {
					return 0, &MalformedReportError{Err: fmt.Errorf("bad length attribute %q: %w", attr.Value, err)}
				}
				removed = n
			}
		case xml.CharData:
			if inReplacement {
				inserted += utf8.RuneCount(t)
			}
		case xml.EndElement:
			if t.Name.Local == "replacement" && inReplacement {
				total += removed + inserted
				inReplacement = false
			}
		}
	}
	return total, nil
}
