package validation

import (
	"testing"
	"time"
)

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	PositiveFloat("price", 0, v)
	PositiveInt("quantity", -1, v)
	RangeFloat("discount", 150, 0, 100, v)
	DateRequired("due", time.Time{}, v)
	want := map[string]string{
		"name":     "required",
		"price":    "must_be_positive",
		"quantity": "must_be_positive",
		"discount": "out_of_range",
		"due":      "required",
	}
	for field, msg := range want {
		if v[field] != msg {
			t.Fatalf("%s: got %q want %q", field, v[field], msg)
		}
	}
}

func TestValidatorsPassOnValidInput(t *testing.T) {
	v := Violations{}
	Required("name", "ClientCo", v)
	PositiveFloat("price", 12.5, v)
	PositiveInt("quantity", 3, v)
	RangeFloat("discount", 100, 0, 100, v)
	DateRequired("due", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), v)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
}

func TestMerge(t *testing.T) {
	v := Violations{"a": "required"}
	v.Merge(Violations{"b": "out_of_range", "a": "must_be_positive"})
	if len(v) != 2 || v["a"] != "must_be_positive" || v["b"] != "out_of_range" {
		t.Fatalf("unexpected merge result: %v", v)
	}
}
