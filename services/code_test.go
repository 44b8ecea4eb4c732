package services

import (
	"testing"
)

func TestSlugUpper(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bidang Pengendalian Air", "BIDANG_PENGENDALIAN_AIR"},
		{"Laporan 2024", "LAPORAN_2024"},
		{"Tata Ruang", "TATA_RUANG"},
		{"  spasi   berlebih  ", "SPASI_BERLEBIH"},
		{"Laporan (Final) - v2!", "LAPORAN_FINAL_V2"},
		{"Évaluasi Udara", "EVALUASI_UDARA"},
		{"!!!", ""},
		{"", ""},
	}

	for _, c := range cases {
		if got := SlugUpper(c.in); got != c.want {
			t.Errorf("SlugUpper(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGenerateCodeUsesFallbackForEmptySlug(t *testing.T) {
	code, err := GenerateCode("???", CodeFallbackBidang, func(string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("GenerateCode returned error: %v", err)
	}
	if code != "BIDANG" {
		t.Fatalf("expected BIDANG, got %q", code)
	}
}

func TestGenerateCodeAppendsCounterOnCollision(t *testing.T) {
	taken := map[string]bool{}
	exists := func(candidate string) (bool, error) {
		return taken[candidate], nil
	}

	first, err := GenerateCode("Bidang Pengendalian Air", CodeFallbackBidang, exists)
	if err != nil {
		t.Fatalf("first GenerateCode returned error: %v", err)
	}
	if first != "BIDANG_PENGENDALIAN_AIR" {
		t.Fatalf("expected base code, got %q", first)
	}
	taken[first] = true

	second, err := GenerateCode("Bidang Pengendalian Air", CodeFallbackBidang, exists)
	if err != nil {
		t.Fatalf("second GenerateCode returned error: %v", err)
	}
	if second != "BIDANG_PENGENDALIAN_AIR_1" {
		t.Fatalf("expected _1 suffix, got %q", second)
	}
	taken[second] = true

	third, err := GenerateCode("Bidang Pengendalian Air", CodeFallbackBidang, exists)
	if err != nil {
		t.Fatalf("third GenerateCode returned error: %v", err)
	}
	if third != "BIDANG_PENGENDALIAN_AIR_2" {
		t.Fatalf("expected _2 suffix, got %q", third)
	}
}

func TestGenerateCodeIsDeterministic(t *testing.T) {
	exists := func(string) (bool, error) { return false, nil }

	a, _ := GenerateCode("Laporan Tahunan 2024", CodeFallbackDocument, exists)
	b, _ := GenerateCode("Laporan Tahunan 2024", CodeFallbackDocument, exists)
	if a != b {
		t.Fatalf("same seed produced %q and %q", a, b)
	}
}
