package itemcode

import (
	"reflect"
	"testing"
)

func TestNormalizeTrims(t *testing.T) {
	if got := Normalize("  1001 "); got != "1001" {
		t.Fatalf("expected 1001, got %q", got)
	}
}

func TestNormalizeStripsSingleLeadingZero(t *testing.T) {
	if got := Normalize("01001"); got != "1001" {
		t.Fatalf("expected 1001, got %q", got)
	}
	// only one zero is stripped
	if got := Normalize("001001"); got != "01001" {
		t.Fatalf("expected 01001, got %q", got)
	}
}

func TestNormalizeKeepsAlphanumeric(t *testing.T) {
	if got := Normalize("0A-200"); got != "0A-200" {
		t.Fatalf("expected 0A-200, got %q", got)
	}
	if got := Normalize("0"); got != "0" {
		t.Fatalf("expected 0, got %q", got)
	}
}

func TestLineKeyPrefersArticleNumber(t *testing.T) {
	if got := LineKey(" 200 ", "999"); got != "200" {
		t.Fatalf("expected 200, got %q", got)
	}
	if got := LineKey("", "999"); got != "999" {
		t.Fatalf("expected 999, got %q", got)
	}
}

func TestFromRowFallbacks(t *testing.T) {
	row := map[string]interface{}{
		"name":        "Vase",
		"ARTICLECODE": " 0300 ",
	}
	if got := FromRow(row); got != "300" {
		t.Fatalf("expected 300, got %q", got)
	}
	if got := FromRow(map[string]interface{}{"name": "Vase"}); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestUniq(t *testing.T) {
	got := Uniq([]string{" 200", "", "0200", "300", "200"})
	want := []string{"200", "300"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
