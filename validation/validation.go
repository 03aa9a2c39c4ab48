package validation

import (
	"strings"
	"time"
)

// Violations maps a field name to a short machine-readable message. Callers
// collect every violation before rejecting, never just the first one.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Merge copies every entry of other into v.
func (v Violations) Merge(other Violations) {
	for field, msg := range other {
		v[field] = msg
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

func DateRequired(field string, val time.Time, v Violations) {
	if val.IsZero() {
		v[field] = "required"
	}
}
