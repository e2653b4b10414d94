// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"

	"github.com/pdiddy/research-collector/pkg/types"
)

// Quality score weights. Additive, no partial credit: five presence
// checks against the raw (pre-normalization) record.
const (
	scoreTitle     = 20
	scoreAuthors   = 20
	scoreAbstract  = 30
	scorePublished = 15
	scoreURL       = 15

	// minAbstractWords is the raw token count an abstract must exceed to
	// earn its points.
	minAbstractWords = 10
)

// Score computes the 0-100 completeness score of a raw record. Pure and
// deterministic in the five field-presence checks.
func Score(raw types.RawPaper) int {
	score := 0
	if raw.Title != "" {
		score += scoreTitle
	}
	if len(raw.Authors) > 0 {
		score += scoreAuthors
	}
	if len(strings.Fields(raw.Abstract)) > minAbstractWords {
		score += scoreAbstract
	}
	if raw.Published != "" {
		score += scorePublished
	}
	if raw.PDFURL != "" {
		score += scoreURL
	}
	return score
}
