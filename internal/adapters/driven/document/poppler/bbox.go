package poppler

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// parseBBox reads the word elements of pdftotext -bbox output:
//
//	<word xMin="56.8" yMin="57.2" xMax="79.0" yMax="69.1">Hello</word>
func parseBBox(data []byte) ([]domain.PageWord, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var words []domain.PageWord
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return words, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse word boxes: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "word" {
			continue
		}
		var w struct {
			XMin string `xml:"xMin,attr"`
			YMin string `xml:"yMin,attr"`
			XMax string `xml:"xMax,attr"`
			YMax string `xml:"yMax,attr"`
			Text string `xml:",chardata"`
		}
		if err := dec.DecodeElement(&w, &start); err != nil {
			return nil, fmt.Errorf("parse word boxes: %w", err)
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		words = append(words, domain.PageWord{
			Text: text,
			Rect: domain.Rect{
				X0: parseCoord(w.XMin),
				Y0: parseCoord(w.YMin),
				X1: parseCoord(w.XMax),
				Y1: parseCoord(w.YMax),
			},
		})
	}
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
