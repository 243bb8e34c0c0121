package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"storefront/catalog/internal/domain"
)

// markupSeparator divides the raw haystack from the flattened description text.
const markupSeparator = "\x00"

// SearchText builds the lowercased haystack matched by free-text queries:
// name, description and every "specName specValue" pair joined by spaces.
// Descriptions with markup also contribute their flattened text after a NUL.
func SearchText(p *domain.Product) string {
	parts := make([]string, 0, 2+len(p.Specs))
	parts = append(parts, p.Name, p.Description)
	for _, s := range p.Specs {
		parts = append(parts, s.Name+" "+s.Value)
	}
	haystack := strings.Join(parts, " ")
	if plain, ok := plainText(p.Description); ok {
		haystack += markupSeparator + plain
	}
	return strings.ToLower(haystack)
}

// plainText flattens markup in scraped descriptions. ok is false for plain text.
func plainText(description string) (string, bool) {
	if !strings.Contains(description, "<") {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return "", false
	}
	return strings.Join(strings.Fields(doc.Text()), " "), true
}
