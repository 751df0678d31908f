package scoring

import (
	"errors"
	"testing"
)

func TestComputeOverallScore(t *testing.T) {
	tests := []struct {
		name      string
		flora     float64
		fauna     float64
		ecosystem float64
		want      int
		wantErr   bool
	}{
		{"all maximum", 100, 100, 100, 100, false},
		{"all zero", 0, 0, 0, 0, false},
		{"ecosystem zero", 100, 100, 0, 80, false},
		{"flora only", 100, 0, 0, 40, false},
		{"ecosystem only", 0, 0, 100, 20, false},
		{"mixed", 75, 80, 60, 74, false},
		{"rounds down", 74, 74, 76, 74, false}, // 74.4 -> 74
		{"rounds up", 61, 62, 63, 62, false},   // 61.8 -> 62
		{"negative flora", -1, 50, 50, 0, true},
		{"fauna above range", 50, 100.5, 50, 0, true},
		{"ecosystem below range", 50, 50, -0.01, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeOverallScore(tt.flora, tt.fauna, tt.ecosystem)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeOverallScore(%g, %g, %g) error = %v, wantErr %v",
					tt.flora, tt.fauna, tt.ecosystem, err, tt.wantErr)
			}
			if tt.wantErr {
				var oor *OutOfRangeError
				if !errors.As(err, &oor) {
					t.Fatalf("error = %v, want *OutOfRangeError", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ComputeOverallScore(%g, %g, %g) = %d, want %d",
					tt.flora, tt.fauna, tt.ecosystem, got, tt.want)
			}
		})
	}
}

func TestComputeOverallScore_RangeProperty(t *testing.T) {
	// Every valid input combination must land in [0,100].
	for flora := 0.0; flora <= 100; flora += 25 {
		for fauna := 0.0; fauna <= 100; fauna += 25 {
			for eco := 0.0; eco <= 100; eco += 25 {
				got, err := ComputeOverallScore(flora, fauna, eco)
				if err != nil {
					t.Fatalf("unexpected error for (%g,%g,%g): %v", flora, fauna, eco, err)
				}
				if got < 0 || got > 100 {
					t.Errorf("ComputeOverallScore(%g,%g,%g) = %d, outside [0,100]", flora, fauna, eco, got)
				}
			}
		}
	}
}

func TestComputeOverallScore_OutOfRangeNamesField(t *testing.T) {
	_, err := ComputeOverallScore(50, 50, 101)
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("error = %v, want *OutOfRangeError", err)
	}
	if oor.Field != "ecosystem" {
		t.Errorf("Field = %q, want %q", oor.Field, "ecosystem")
	}
}

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		score int
		want  Band
	}{
		{100, BandSangatBaik},
		{80, BandSangatBaik}, // lower bound inclusive
		{79, BandBaik},
		{60, BandBaik},
		{59, BandCukup},
		{40, BandCukup},
		{39, BandKurang},
		{0, BandKurang},
	}

	for _, tt := range tests {
		if got := ClassifyScore(tt.score); got != tt.want {
			t.Errorf("ClassifyScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
