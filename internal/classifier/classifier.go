// Package classifier defines the condition-classifier boundary: given a
// listing title, its price and the target model, an external collaborator
// decides whether the offer is the real instrument and how degraded it is.
package classifier

import "context"

// Tier is the detailed condition a classifier assigns to a listing.
type Tier string

const (
	TierNew            Tier = "new"
	TierExcellent      Tier = "excellent"
	TierFunctional     Tier = "functional"
	TierSemiFunctional Tier = "semi_functional"
	TierNonFunctional  Tier = "non_functional"

	// TierError is the sentinel returned when the collaborator could not
	// produce a verdict. Listings carrying it are rejected, never stored.
	TierError Tier = "error"
)

// Known reports whether t is one of the real condition tiers.
func (t Tier) Known() bool {
	switch t {
	case TierNew, TierExcellent, TierFunctional, TierSemiFunctional, TierNonFunctional:
		return true
	}
	return false
}

// Request carries the facts the classifier judges a listing on.
type Request struct {
	Title       string
	Price       float64
	TargetModel string
}

// Verdict is the structured result of a classification.
type Verdict struct {
	// Valid is false when the listing is not the real instrument: an
	// accessory, a lesson, a scam-priced offer, or an unreadable response.
	Valid      bool    `json:"valid"`
	Tier       Tier    `json:"tier"`
	RepairCost float64 `json:"repair_cost"`
	Rationale  string  `json:"rationale"`
}

// Rejected builds the verdict used when classification itself failed.
func Rejected(reason string) Verdict {
	return Verdict{Valid: false, Tier: TierError, RepairCost: 0, Rationale: reason}
}

// Classifier is the external collaborator contract. Implementations report
// transport or parsing failures as a Rejected verdict with a nil error;
// a non-nil error is reserved for the caller's context being done.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Verdict, error)
}
