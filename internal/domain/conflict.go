package domain

type ConflictType string

const (
	ConflictTypeWorktime ConflictType = "worktime"
	ConflictTypeQuiet    ConflictType = "quiet"
	ConflictTypeOverlap  ConflictType = "overlap"
)

func (c ConflictType) String() string {
	return string(c)
}

type Conflict struct {
	Type   ConflictType `json:"type"`
	Detail string       `json:"detail"`
}

// AdjustmentOption is a full candidate window plus the reason it was proposed.
type AdjustmentOption struct {
	Start       string      `json:"start,omitempty"`
	Due         string      `json:"due,omitempty"`
	DurationMin *int        `json:"duration_min,omitempty"`
	Flexibility Flexibility `json:"flexibility"`
	Rationale   string      `json:"rationale"`
	Fallback    bool        `json:"fallback"`
}

func (o AdjustmentOption) AsDraft(title string) Draft {
	return Draft{
		Title:       title,
		Start:       o.Start,
		Due:         o.Due,
		DurationMin: o.DurationMin,
		Flexibility: o.Flexibility,
	}
}
