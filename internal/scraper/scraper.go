// Package scraper produces raw listing records from marketplaces and
// official retailer sites. The ingestion core only depends on the Searcher
// interface; the chromedp implementations here are replaceable collaborators.
package scraper

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// RawListing is one offer as observed on a result page, before any
// deduplication or classification.
type RawListing struct {
	Model        string // official catalog name, e.g. "Roland FP-30X"
	SearchTerm   string // what was typed into the search bar
	Title        string
	Price        float64
	Link         string
	FreeShipping bool
	Location     string
	Store        string
}

// Searcher is the scraping collaborator contract: search one target model
// and return whatever offers the source currently shows. An empty slice is
// a normal answer; implementations own their timeouts.
type Searcher interface {
	Search(ctx context.Context, model, term string) ([]RawListing, error)
}

var priceNoise = regexp.MustCompile(`[^\d,]`)

// ParsePrice converts a Brazilian price string ("R$ 3.500,00") to a float.
// Thousands separators are dots and get stripped with the currency noise;
// the decimal comma becomes a dot. Unparsable input yields 0, which the
// downstream sanity filters discard.
func ParsePrice(text string) float64 {
	cleaned := priceNoise.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
