package domain

import "math"

// RawKind tells which shape a loosely typed dataset field had.
type RawKind int

const (
	RawAbsent RawKind = iota // field missing from the record
	RawNull                  // explicit JSON null
	RawNumber
	RawString
	RawOther // booleans, arrays, objects
)

// RawValue is a number|string|null field as it appears in the scraped dataset.
type RawValue struct {
	Kind RawKind
	Num  float64
	Str  string
}

func AbsentValue() RawValue { return RawValue{Kind: RawAbsent} }
func NullValue() RawValue { return RawValue{Kind: RawNull} }
func NumberValue(n float64) RawValue { return RawValue{Kind: RawNumber, Num: n} }
func StringValue(s string) RawValue { return RawValue{Kind: RawString, Str: s} }
func OtherValue(raw string) RawValue { return RawValue{Kind: RawOther, Str: raw} }
func (v RawValue) IsNullish() bool { return v.Kind == RawAbsent || v.Kind == RawNull }
func (v RawValue) IsFiniteNumber() bool { return v.Kind == RawNumber && !math.IsInf(v.Num, 0) && !math.IsNaN(v.Num) }

// Coalesce returns v unless it is absent or null, in which case it returns fallback.
func (v RawValue) Coalesce(fallback RawValue) RawValue {
	if v.IsNullish() {
		return fallback
	}
	return v
}

// RawSpec is one name/value specification pair.
type RawSpec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawProduct is a single dataset record. Nothing in it is guaranteed to be present.
type RawProduct struct {
	Name           string
	URL            *string
	Breadcrumbs    []string
	CategoryPath   []string
	PriceOld       RawValue
	PriceNew       RawValue
	Price          RawValue
	ImageCover     *string
	Description    *string
	Images         []string
	Specifications []RawSpec
}
