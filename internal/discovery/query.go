package discovery

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// AnchorYear is the newest year queried, used on page 1.
const AnchorYear = 2025

// QuerySynthesizer turns a category phrase and a page number into a search
// string. Page 1 asks for AnchorYear, each further page one year earlier.
type QuerySynthesizer struct {
	AnchorYear int
}

func NewQuerySynthesizer(anchorYear int) QuerySynthesizer {
	if anchorYear <= 0 {
		anchorYear = AnchorYear
	}
	return QuerySynthesizer{AnchorYear: anchorYear}
}

// YearFor returns the year token queried for pageNumber.
func (s QuerySynthesizer) YearFor(pageNumber int) int {
	return s.AnchorYear - (max(pageNumber, 1) - 1)
}

func (s QuerySynthesizer) Synthesize(basePhrase string, pageNumber int) string {
	query := fmt.Sprintf("%s %d", basePhrase, s.YearFor(pageNumber))
	log.Debugf("Generated query %q for page %d", query, pageNumber)
	return query
}

// Synthesize builds the query for pageNumber anchored at AnchorYear.
func Synthesize(basePhrase string, pageNumber int) string {
	return NewQuerySynthesizer(AnchorYear).Synthesize(basePhrase, pageNumber)
}
