package normalize

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"storefront/catalog/internal/domain"
)

var ErrMalformedDataset = errors.New("malformed product dataset")

// DecodeDataset reads a JSON array of raw product records. Array elements that are not
// objects are skipped; fields of an unexpected type are treated as absent.
func DecodeDataset(data []byte) ([]domain.RawProduct, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedDataset)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrMalformedDataset)
	}

	records := doc.Array()
	products := make([]domain.RawProduct, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if !rec.IsObject() {
			skipped++
			continue
		}
		products = append(products, decodeProduct(rec))
	}
	if skipped > 0 {
		log.Warnf("Skipped %d dataset entries that are not objects", skipped)
	}
	return products, nil
}

func decodeProduct(rec gjson.Result) domain.RawProduct {
	name, _ := optionalString(rec.Get("name"))
	p := domain.RawProduct{
		Name:           textOrEmpty(name),
		Breadcrumbs:    stringList(rec.Get("breadcrumbs")),
		CategoryPath:   stringList(rec.Get("category_path")),
		PriceOld:       rawValue(rec.Get("price_old")),
		PriceNew:       rawValue(rec.Get("price_new")),
		Price:          rawValue(rec.Get("price")),
		Images:         stringList(rec.Get("images")),
		Specifications: specList(rec.Get("specifications")),
	}
	if url, ok := optionalString(rec.Get("url")); ok {
		p.URL = url
	}
	if cover, ok := optionalString(rec.Get("image_cover")); ok {
		p.ImageCover = cover
	}
	if desc, ok := optionalString(rec.Get("description")); ok {
		p.Description = desc
	}
	return p
}

func rawValue(r gjson.Result) domain.RawValue {
	if !r.Exists() {
		return domain.AbsentValue()
	}
	switch r.Type {
	case gjson.Null:
		return domain.NullValue()
	case gjson.Number:
		return domain.NumberValue(r.Num)
	case gjson.String:
		return domain.StringValue(r.Str)
	default:
		return domain.OtherValue(r.Raw)
	}
}

func optionalString(r gjson.Result) (*string, bool) {
	if r.Type != gjson.String {
		return nil, false
	}
	s := r.Str
	return &s, true
}

func textOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// stringList keeps strings and numbers (as their JSON text); other entries become "".
func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	items := r.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch item.Type {
		case gjson.String:
			out = append(out, item.Str)
		case gjson.Number:
			if item.Num != 0 {
				out = append(out, item.Raw)
			} else {
				out = append(out, "")
			}
		default:
			out = append(out, "")
		}
	}
	return out
}

func specList(r gjson.Result) []domain.RawSpec {
	if !r.IsArray() {
		return nil
	}
	items := r.Array()
	out := make([]domain.RawSpec, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		out = append(out, domain.RawSpec{
			Name:  item.Get("name").String(),
			Value: item.Get("value").String(),
		})
	}
	return out
}
