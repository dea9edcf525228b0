package crawler

import (
	"context"
	"fmt"
	"log"

	"mercadoia/internal/catalog"
)

const maxPages = 200

// CrawlCategory percorre a vitrine a partir de startURL seguindo o link de
// próxima página.
func CrawlCategory(ctx context.Context, startURL string, handler func(catalog.Product)) (int, error) {
	seen := map[string]bool{}
	total := 0
	nextURL := startURL

	for nextURL != "" && !seen[nextURL] && len(seen) < maxPages {
		seen[nextURL] = true

		html, err := Fetch(ctx, nextURL)
		if err != nil {
			return total, err
		}
		listing, err := ParseListing(html, nextURL)
		if err != nil {
			return total, fmt.Errorf("failed to parse %s: %w", nextURL, err)
		}
		log.Printf("[Crawler] %s: %d produtos", nextURL, len(listing.Products))

		for _, p := range listing.Products {
			handler(p)
		}
		total += len(listing.Products)
		nextURL = listing.Next
	}
	return total, nil
}
