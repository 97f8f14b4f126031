package scraper

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	mercadoLivreStore = "Mercado Livre"

	// Offers under this are cables, stands and stickers, never a piano.
	mercadoLivreMinPrice = 500
)

// MercadoLivre scrapes lista.mercadolivre.com.br search result pages.
type MercadoLivre struct {
	allocCtx context.Context
}

// NewMercadoLivre creates a searcher bound to a shared browser context.
func NewMercadoLivre(allocCtx context.Context) *MercadoLivre {
	return &MercadoLivre{allocCtx: allocCtx}
}

// mlCard is the JSON shape the in-page extraction script returns per result.
type mlCard struct {
	Title        string `json:"title"`
	Price        string `json:"price"`
	Link         string `json:"link"`
	Location     string `json:"location"`
	FreeShipping bool   `json:"freeShipping"`
}

// Search loads the result page for term and extracts every offer card.
// The pre-navigation pause mimics a human pace; result pages served to
// instant navigation tend to be challenge pages.
func (m *MercadoLivre) Search(ctx context.Context, model, term string) ([]RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url := "https://lista.mercadolivre.com.br/" + strings.ReplaceAll(term, " ", "-")
	log.Printf("📦 Mercado Livre: searching %q", term)

	tabCtx, cancel := chromedp.NewContext(m.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 90*time.Second)
	defer cancelTimeout()

	pause := time.Duration(3000+rand.Intn(3000)) * time.Millisecond

	var cards []mlCard
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(pause),
		chromedp.Evaluate(`
			(function() {
				var results = [];
				var cards = document.querySelectorAll('li.ui-search-layout__item');
				if (cards.length === 0) cards = document.querySelectorAll('div.ui-search-result__wrapper');
				if (cards.length === 0) cards = document.querySelectorAll('div.andes-card');

				for (var i = 0; i < cards.length; i++) {
					var card = cards[i];

					var titleEl = card.querySelector('h2.ui-search-item__title') ||
					              card.querySelector('a.ui-search-item__group__element') ||
					              card.querySelector('h3');
					if (!titleEl) continue;

					var linkEl = card.querySelector('a.ui-search-link') || card.querySelector('a');
					if (!linkEl || !linkEl.href) continue;

					var price = '';
					var priceBox = card.querySelector('div.ui-search-price__second-line') || card;
					var priceEl = priceBox.querySelector('span.andes-money-amount__fraction');
					if (priceEl) price = priceEl.innerText;

					var locEl = card.querySelector('span.ui-search-item__location');
					var text = (card.innerText || '').toLowerCase();

					results.push({
						title:        titleEl.innerText.trim(),
						price:        price,
						link:         linkEl.href,
						location:     locEl ? locEl.innerText.trim() : 'Local não informado',
						freeShipping: text.indexOf('frete grátis') !== -1 || text.indexOf('chegará grátis') !== -1
					});
				}
				return results;
			})()
		`, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("mercadolivre search %q: %w", term, err)
	}

	listings := make([]RawListing, 0, len(cards))
	for _, c := range cards {
		price := ParsePrice(c.Price)
		if price < mercadoLivreMinPrice {
			continue
		}
		listings = append(listings, RawListing{
			Model:        model,
			SearchTerm:   term,
			Title:        c.Title,
			Price:        price,
			Link:         c.Link,
			FreeShipping: c.FreeShipping,
			Location:     c.Location,
			Store:        mercadoLivreStore,
		})
	}

	log.Printf("📦 Mercado Livre: %d offers for %q", len(listings), term)
	return listings, nil
}
