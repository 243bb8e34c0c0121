package normalize

import (
	"regexp"
	"strings"

	"storefront/catalog/internal/domain"
)

const (
	DefaultFallbackCategory = "Каталог"
	fallbackImageSlug       = "image"
)

var (
	codeSpecPattern = regexp.MustCompile(`(?i)(код|арт|sku|№)`)
	codeDigits      = regexp.MustCompile(`\d{5,}`)
	urlExtension    = regexp.MustCompile(`(?i)\.[a-z0-9]+$`)
)

// Normalizer converts raw dataset records into domain products.
type Normalizer struct {
	images           ImageMapper
	fallbackCategory string
}

func NewNormalizer(images ImageMapper, fallbackCategory string) *Normalizer {
	if fallbackCategory == "" {
		fallbackCategory = DefaultFallbackCategory
	}
	return &Normalizer{
		images:           images,
		fallbackCategory: fallbackCategory,
	}
}

func (n *Normalizer) Images() ImageMapper {
	return n.images
}

func (n *Normalizer) Normalize(raw domain.RawProduct) domain.Product {
	trail := breadcrumbTrail(raw)
	brand := ""
	if len(trail) > 0 {
		brand = trail[len(trail)-1]
	}
	category := n.fallbackCategory
	switch {
	case len(trail) > 1:
		category = trail[len(trail)-2]
	case brand != "":
		category = brand
	}

	mapped := make([]string, 0, len(raw.Images))
	for _, img := range raw.Images {
		mapped = append(mapped, n.images.Map(img))
	}
	cover := n.coverImage(raw, mapped)

	p := domain.Product{
		ID:          ProductID(raw.URL, raw.Name),
		Name:        raw.Name,
		Price:       ParsePrice(raw.PriceNew.Coalesce(raw.Price)),
		PriceOld:    ParsePrice(raw.PriceOld),
		Image:       cover,
		Images:      uniqueNonEmpty(append([]string{cover}, mapped...)),
		Category:    category,
		Breadcrumbs: trail,
		Specs:       raw.Specifications,
	}
	if raw.Description != nil {
		p.Description = strings.TrimSpace(*raw.Description)
	}
	if raw.URL != nil {
		p.URL = *raw.URL
	}
	return p
}

func breadcrumbTrail(raw domain.RawProduct) []string {
	source := raw.Breadcrumbs
	if len(source) == 0 {
		source = raw.CategoryPath
	}
	trail := make([]string, 0, len(source))
	for _, crumb := range source {
		if crumb != "" {
			trail = append(trail, crumb)
		}
	}
	return trail
}

func (n *Normalizer) coverImage(raw domain.RawProduct, mapped []string) string {
	if raw.ImageCover != nil && *raw.ImageCover != "" {
		return n.images.Map(*raw.ImageCover)
	}
	if len(mapped) > 0 && mapped[0] != "" {
		return mapped[0]
	}
	return n.images.Route + "/" + synthesizedImageName(raw)
}

// synthesizedImageName guesses a file name for records that carry no image at all.
// A product code found in the specifications wins over the slug.
func synthesizedImageName(raw domain.RawProduct) string {
	for _, spec := range raw.Specifications {
		if !codeSpecPattern.MatchString(spec.Name) {
			continue
		}
		if digits := codeDigits.FindString(spec.Value); digits != "" {
			return digits + ".jpg"
		}
		break
	}

	base := Slugify(raw.Name)
	if base == "" && raw.URL != nil {
		segments := strings.Split(*raw.URL, "/")
		last := segments[len(segments)-1]
		base = Slugify(urlExtension.ReplaceAllString(last, ""))
	}
	if base == "" {
		base = fallbackImageSlug
	}
	return base + ".jpg"
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
