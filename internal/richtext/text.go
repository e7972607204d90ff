// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package richtext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed behind ReadTime.
const WordsPerMinute = 200

// PlainText returns the visible text of an HTML fragment with whitespace
// collapsed. Adjacent elements never glue their words together, and script
// and style bodies are not counted.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style").Remove()

	var b strings.Builder
	collectText(doc.Selection, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

// collectText appends text nodes under s in document order.
func collectText(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
			b.WriteByte(' ')
			return
		}
		collectText(c, b)
	})
}

// WordCount counts whitespace-separated words in the visible text.
func WordCount(html string) int {
	return len(strings.Fields(PlainText(html)))
}

// ReadTime estimates reading time as "N min", rounding up, never below one.
func ReadTime(html string) string {
	minutes := (WordCount(html) + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min", minutes)
}

// Excerpt returns at most max runes of visible text, cut on a word boundary
// and suffixed with an ellipsis when shortened.
func Excerpt(html string, max int) string {
	text := PlainText(html)
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
