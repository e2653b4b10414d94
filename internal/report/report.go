// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report computes aggregate statistics, chart inputs, and
// formatted text reports from a finalized list of paper records. All
// functions are pure; empty input yields fixed no-data sentinels, never
// an error.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/research-collector/pkg/types"
)

// NoDataMessage is the sentinel output for an empty record list.
const NoDataMessage = "No data available for report generation"

// Summary holds derived scalar statistics for one record list.
type Summary struct {
	TotalPapers       int       `json:"total_papers"`
	AvgQualityScore   float64   `json:"avg_quality_score"`
	AvgAbstractWords  float64   `json:"avg_abstract_words"`
	EarliestPublished time.Time `json:"earliest_published"`
	LatestPublished   time.Time `json:"latest_published"`
}

// Summarize computes scalar statistics. The zero Summary is returned for
// empty input.
func Summarize(records []types.PaperRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	s := Summary{
		TotalPapers:       len(records),
		EarliestPublished: records[0].PublishedDate,
		LatestPublished:   records[0].PublishedDate,
	}
	var scoreSum, wordSum int
	for _, r := range records {
		scoreSum += r.QualityScore
		wordSum += r.AbstractWordCount
		if r.PublishedDate.Before(s.EarliestPublished) {
			s.EarliestPublished = r.PublishedDate
		}
		if r.PublishedDate.After(s.LatestPublished) {
			s.LatestPublished = r.PublishedDate
		}
	}
	s.AvgQualityScore = float64(scoreSum) / float64(len(records))
	s.AvgAbstractWords = float64(wordSum) / float64(len(records))
	return s
}

// CategoryCount is one slice of the category chart.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryCounts returns the topN primary categories by record count,
// descending. Ties keep first-occurrence order. Records with an empty
// primary category count under "unknown".
func CategoryCounts(records []types.PaperRecord, topN int) []CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		cat := r.PrimaryCategory
		if cat == "" {
			cat = "unknown"
		}
		if _, ok := counts[cat]; !ok {
			order = append(order, cat)
		}
		counts[cat]++
	}

	result := make([]CategoryCount, 0, len(order))
	for _, cat := range order {
		result = append(result, CategoryCount{Category: cat, Count: counts[cat]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if topN > 0 && len(result) > topN {
		result = result[:topN]
	}
	return result
}

// ScoreBuckets groups records into the four quality bands.
type ScoreBuckets struct {
	Excellent int `json:"excellent"` // score >= 80
	Good      int `json:"good"`      // 60-79
	Fair      int `json:"fair"`      // 40-59
	Poor      int `json:"poor"`      // < 40
}

// BucketScores computes the quality-band histogram.
func BucketScores(records []types.PaperRecord) ScoreBuckets {
	var b ScoreBuckets
	for _, r := range records {
		switch {
		case r.QualityScore >= 80:
			b.Excellent++
		case r.QualityScore >= 60:
			b.Good++
		case r.QualityScore >= 40:
			b.Fair++
		default:
			b.Poor++
		}
	}
	return b
}

// HistogramBin is one bar of the score-distribution chart.
type HistogramBin struct {
	Low   int `json:"low"`
	High  int `json:"high"`
	Count int `json:"count"`
}

// histogramBins is the fixed bin count for the score chart.
const histogramBins = 10

// ScoreHistogram bins quality scores into ten equal-width bars over
// [0,100]. A score of 100 lands in the last bin.
func ScoreHistogram(records []types.PaperRecord) []HistogramBin {
	bins := make([]HistogramBin, histogramBins)
	width := 100 / histogramBins
	for i := range bins {
		bins[i].Low = i * width
		bins[i].High = (i + 1) * width
	}
	for _, r := range records {
		idx := r.QualityScore / width
		if idx >= histogramBins {
			idx = histogramBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins
}

// TopPapers returns the k highest-scoring records. The sort is stable, so
// ties keep input order.
func TopPapers(records []types.PaperRecord, k int) []types.PaperRecord {
	sorted := make([]types.PaperRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].QualityScore > sorted[j].QualityScore
	})
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// WriteReport renders the analysis report as plain text. Empty input
// writes the no-data sentinel.
func WriteReport(w io.Writer, records []types.PaperRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, NoDataMessage)
		return
	}

	s := Summarize(records)

	fmt.Fprintln(w, "ARXIV RESEARCH DATA ANALYSIS REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 37))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Data Collection Summary:")
	fmt.Fprintf(w, "  Total Papers Collected: %d\n", s.TotalPapers)
	fmt.Fprintf(w, "  Average Quality Score: %.1f/100\n", s.AvgQualityScore)
	fmt.Fprintf(w, "  Average Abstract Length: %.1f words\n", s.AvgAbstractWords)
	fmt.Fprintf(w, "  Date Range: %s to %s\n",
		s.EarliestPublished.Format("2006-01-02"), s.LatestPublished.Format("2006-01-02"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Top Categories:")
	for _, c := range CategoryCounts(records, 5) {
		fmt.Fprintf(w, "  %s: %d papers\n", c.Category, c.Count)
	}

	b := BucketScores(records)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Quality Assessment:")
	fmt.Fprintf(w, "  Excellent (80-100): %d papers\n", b.Excellent)
	fmt.Fprintf(w, "  Good (60-79): %d papers\n", b.Good)
	fmt.Fprintf(w, "  Fair (40-59): %d papers\n", b.Fair)
	fmt.Fprintf(w, "  Poor (<40): %d papers\n", b.Poor)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sample Papers (with PDF links):")
	for i, p := range TopPapers(records, 3) {
		link := p.SourceURL
		if link == "" {
			link = "No PDF available"
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, truncate(p.Title, 70))
		fmt.Fprintf(w, "   Authors: %s\n", formatAuthors(p.Authors))
		fmt.Fprintf(w, "   Category: %s\n", p.PrimaryCategory)
		fmt.Fprintf(w, "   Quality Score: %d/100\n", p.QualityScore)
		fmt.Fprintf(w, "   PDF: %s\n", link)
	}
}

// FormatTable writes records as a human-readable table.
func FormatTable(w io.Writer, records []types.PaperRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No papers collected.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-56s  %-12s  %-5s  %-5s  %s\n",
		"Rank", "Title", "Category", "Score", "Words", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range records {
		fmt.Fprintf(w, "%-4d  %-56s  %-12s  %-5d  %-5d  %s\n",
			i+1, truncate(r.Title, 56), r.PrimaryCategory,
			r.QualityScore, r.AbstractWordCount, r.Source)
	}
	fmt.Fprintf(w, "\n%d papers\n", len(records))
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1, 2:
		return strings.Join(authors, ", ")
	default:
		return strings.Join(authors[:2], ", ") + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
