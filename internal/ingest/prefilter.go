package ingest

import (
	"strings"

	"github.com/keymarket/pianoscout/internal/identity"
)

// Words that mark an offer as a part or accessory, never the instrument.
var forbiddenWords = []string{
	"placa", "main board", "botão", "knob", "suporte", "capa", "bag", "case",
	"pedal", "estante", "móvel", "banco", "banqueta", "fonte", "adesivo",
	"cobertura", "stand", "rack", "pedaleira", "triplo", "cover",
}

// No real digital piano sells below this; cheaper hits are noise.
const minPlausiblePrice = 1500.00

// prefilterReject explains why a raw listing never reached the classifier.
type prefilterReject string

const (
	rejectPrice    prefilterReject = "price below plausible minimum"
	rejectKeyword  prefilterReject = "accessory keyword in title"
	rejectIdentity prefilterReject = "target model not present in title"
)

// prefilter is the free, deterministic gate that runs before the paid
// classifier call: price floor, accessory keyword blacklist, and an identity
// check that the searched model really appears in the title (searching
// "P-225" must not accept a "P-45" result).
func prefilter(title string, price float64, targetModel string) (prefilterReject, bool) {
	if price < minPlausiblePrice {
		return rejectPrice, false
	}

	lower := strings.ToLower(title)
	for _, w := range forbiddenWords {
		if strings.Contains(lower, w) {
			return rejectKeyword, false
		}
	}

	if !modelInTitle(targetModel, title) {
		return rejectIdentity, false
	}

	return "", true
}

// modelInTitle checks the most specific token of the model name (usually the
// model number, e.g. "FP-30X" in "Roland FP-30X") against the normalized
// title.
func modelInTitle(targetModel, title string) bool {
	parts := strings.Fields(targetModel)
	if len(parts) == 0 {
		return false
	}
	keyTerm := identity.NormalizeKey(parts[len(parts)-1])
	if keyTerm == "" {
		return false
	}
	return strings.Contains(identity.NormalizeKey(title), keyTerm)
}
