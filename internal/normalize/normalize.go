// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw search results into canonical paper records
// and scores their completeness.
package normalize

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/research-collector/pkg/types"
)

// timeNow is the clock used for date fallbacks and the NormalizedAt stamp.
// Tests substitute a fixed clock.
var timeNow = time.Now

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	htmlTagRE    = regexp.MustCompile(`<[^>]+>`)
)

// stopWords are excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// dateLayouts are tried in order against the first 10 characters of the
// source's published string. The first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006",
}

const maxKeywords = 10

// Record normalizes one raw search result into a PaperRecord. It is total:
// any missing or malformed field is replaced with a safe default (empty
// string or list, current time) rather than failing the record.
func Record(raw types.RawPaper) types.PaperRecord {
	now := timeNow()
	return types.PaperRecord{
		ID:                paperID(raw),
		Title:             CleanText(raw.Title),
		Authors:           cleanAuthors(raw.Authors),
		Abstract:          cleanAbstract(raw.Abstract),
		PublishedDate:     parseDate(raw.Published, now),
		SourceURL:         raw.PDFURL,
		Source:            raw.Source,
		Categories:        raw.Categories,
		PrimaryCategory:   raw.PrimaryCategory,
		Keywords:          extractKeywords(raw.Abstract),
		AbstractWordCount: len(strings.Fields(raw.Abstract)),
		NormalizedAt:      now,
		QualityScore:      Score(raw),
	}
}

// paperID returns the source identifier verbatim when present. Otherwise
// it hashes the title into a small bounded integer and formats it as
// "paper_N". The fallback is non-cryptographic; collisions are possible
// and accepted.
func paperID(raw types.RawPaper) string {
	if raw.PaperID != "" {
		return raw.PaperID
	}
	h := fnv.New32a()
	h.Write([]byte(raw.Title))
	return fmt.Sprintf("paper_%d", h.Sum32()%10000)
}

// CleanText collapses whitespace runs to single spaces and trims.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// cleanAbstract strips HTML-like tags with a non-validating pattern, then
// collapses whitespace. Best effort, not an HTML parser.
func cleanAbstract(s string) string {
	if s == "" {
		return ""
	}
	return CleanText(htmlTagRE.ReplaceAllString(s, ""))
}

// cleanAuthors trims each name and drops empties and duplicates, keeping
// first-occurrence order.
func cleanAuthors(authors []string) []string {
	var cleaned []string
	seen := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		name := CleanText(a)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}
	return cleaned
}

// parseDate tries each layout against the first 10 characters of the
// input. Unparseable or missing input falls back to now; that is a policy
// choice, not a failure, so PublishedDate is always valid.
func parseDate(s string, now time.Time) time.Time {
	if s == "" {
		return now
	}
	head := s
	if len(head) > 10 {
		head = head[:10]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, head); err == nil {
			return t
		}
	}
	return now
}

// extractKeywords lowercases and splits the raw abstract, keeps tokens
// longer than 3 characters that are not stop words, and de-duplicates
// preserving first-occurrence order, capped at maxKeywords. No stemming
// and no frequency ranking: this is a crude topical hint.
func extractKeywords(abstract string) []string {
	if abstract == "" {
		return nil
	}
	var keywords []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(abstract)) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
