package engine

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "exact match",
			a:    "fever",
			b:    "fever",
			want: 1.0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 1.0,
		},
		{
			name: "containment",
			a:    "headache",
			b:    "severe headache",
			want: 0.9,
		},
		{
			name: "word overlap",
			a:    "stomach pain",
			b:    "chest pain",
			want: 0.5,
		},
		{
			name: "partial word overlap over longer phrase",
			a:    "pain killer",
			b:    "sharp chest pain",
			want: 1.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"fever", "fevr"},
		{"headache", "severe headache"},
		{"stomach pain", "chest pain"},
		{"cough", "caugh"},
		{"", "fever"},
		{"runny nose", "nose"},
	}

	for _, p := range pairs {
		if ab, ba := Similarity(p[0], p[1]), Similarity(p[1], p[0]); ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but Similarity(%q, %q) = %v",
				p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestSimilarity_EditDistanceFallback(t *testing.T) {
	// "fevr" vs "fever": one insertion, so 1 - 1/5 = 0.8. The strings share
	// no whole words and neither contains the other.
	got := Similarity("fevr", "fevers")
	if got <= 0 || got >= 1 {
		t.Fatalf("Similarity(fevr, fevers) = %v, want a value in (0, 1)", got)
	}

	// Distance 2 over length 6.
	want := float64(6-2) / 6
	if got != want {
		t.Errorf("Similarity(fevr, fevers) = %v, want %v", got, want)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"fever", "fever", 0},
		{"fever", "fevr", 1},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
