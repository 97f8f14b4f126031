package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/keymarket/pianoscout/internal/identity"
)

// storefront describes one official retailer whose catalog search we sweep.
type storefront struct {
	Name      string
	SearchURL func(term string) string
}

var brStorefronts = []storefront{
	{
		Name: "TeclaCenter",
		SearchURL: func(term string) string {
			return "https://www.teclacenter.com.br/catalogsearch/result/?q=" + url.QueryEscape(term)
		},
	},
	{
		Name: "Ninja Som",
		SearchURL: func(term string) string {
			return "https://www.ninjasom.com.br/" + url.QueryEscape(term)
		},
	},
}

// OfficialStores sweeps the Brazilian retailer storefronts. These sites have
// no stable markup in common, so extraction is heuristic: find anchors whose
// text matches the model key, then climb to the nearest block carrying a
// price. Results are retail-new by definition.
type OfficialStores struct {
	allocCtx context.Context
}

// NewOfficialStores creates a searcher bound to a shared browser context.
func NewOfficialStores(allocCtx context.Context) *OfficialStores {
	return &OfficialStores{allocCtx: allocCtx}
}

type storeHit struct {
	Title string `json:"title"`
	Price string `json:"price"`
	Link  string `json:"link"`
}

// Search runs the catalog search of every storefront for the model. A
// failing storefront is logged and skipped; the others still answer.
func (s *OfficialStores) Search(ctx context.Context, model, term string) ([]RawListing, error) {
	key := identity.NormalizeKey(term)
	if key == "" {
		return nil, fmt.Errorf("empty search term")
	}

	var all []RawListing
	for _, sf := range brStorefronts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hits, err := s.searchStorefront(sf, term, key)
		if err != nil {
			log.Printf("⚠️ %s search failed: %v", sf.Name, err)
			continue
		}
		for _, h := range hits {
			price := ParsePrice(h.Price)
			// Sanity floor: storefront matches below this are accessories.
			if price < 1500 {
				continue
			}
			all = append(all, RawListing{
				Model:      model,
				SearchTerm: term,
				Title:      h.Title,
				Price:      price,
				Link:       h.Link,
				// Official stores ship nationwide.
				FreeShipping: true,
				Location:     "Loja Oficial",
				Store:        sf.Name,
			})
		}
	}

	log.Printf("🏬 Official stores: %d offers for %q", len(all), term)
	return all, nil
}

func (s *OfficialStores) searchStorefront(sf storefront, term, key string) ([]storeHit, error) {
	tabCtx, cancel := chromedp.NewContext(s.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
	defer cancelTimeout()

	var hits []storeHit
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(sf.SearchURL(term)),
		chromedp.Sleep(5*time.Second),
		chromedp.Evaluate(`
			(function(key) {
				function squash(s) {
					return (s || '').toUpperCase().replace(/[^A-Z0-9]/g, '');
				}

				var results = [];
				var seen = {};
				var anchors = document.querySelectorAll('a[href]');

				for (var i = 0; i < anchors.length; i++) {
					var a = anchors[i];
					var text = (a.innerText || '').trim();
					if (!text) continue;
					if (squash(text).indexOf(key) === -1) continue;

					// Climb up to three levels looking for the price block.
					var node = a.parentElement;
					var container = null;
					for (var up = 0; up < 3 && node; up++) {
						if ((node.innerText || '').indexOf('R$') !== -1) { container = node; break; }
						node = node.parentElement;
					}
					if (!container) continue;

					var match = container.innerText.match(/R\$\s?[\d\.]+,?\d{0,2}/);
					if (!match) continue;

					var href = a.href;
					if (seen[href]) continue;
					seen[href] = true;

					results.push({ title: text, price: match[0], link: href });
				}
				return results;
			})(` + jsString(key) + `)
		`, &hits),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sf.Name, err)
	}
	return hits, nil
}

// jsString quotes a normalized key for safe embedding in the page script.
func jsString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, ``) + `"`
}
