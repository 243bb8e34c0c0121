package domain

// CategoryCount is a flat category listing entry.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryNode is a category with its brand breakdown.
type CategoryNode struct {
	Name   string          `json:"name"`
	Count  int             `json:"count"`
	Brands []CategoryCount `json:"brands"`
}

// CategorySummary is the payload of the categories endpoint.
type CategorySummary struct {
	Items  []string          `json:"items"`
	Counts map[string]int    `json:"counts"`
	Tree   []CategoryNode    `json:"tree"`
	Images map[string]string `json:"images"`
}
