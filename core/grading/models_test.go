package grading_test

import (
	"testing"

	"github.com/trezcool/afs/core/grading"
	testutil "github.com/trezcool/afs/tests"
)

func defaultSystem() grading.System {
	return grading.System{
		ID:                "GS001",
		Name:              "Default Grading System",
		PassingPercentage: 50,
		Scales:            grading.DefaultScales(),
	}
}

func TestLetterFor(t *testing.T) {
	gs := defaultSystem()

	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A+"},
		{92, "A+"},
		{90, "A+"},
		{89, "A"},
		{75, "B+"},
		{70, "B"},
		{67, "C+"},
		{62, "C"},
		{55, "D"},
		{50, "D"},
		{39, "F"},
		{0, "F"},
		{-1, grading.NoGrade},
		{101, grading.NoGrade},
	}
	for _, tt := range tests {
		if got := gs.LetterFor(tt.pct); got != tt.want {
			t.Errorf("LetterFor(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestGPAFor(t *testing.T) {
	gs := defaultSystem()

	if gpa, ok := gs.GPAFor(92); !ok || gpa != 4.0 {
		t.Errorf("GPAFor(92) = %v, %v; want 4.0, true", gpa, ok)
	}
	if _, ok := gs.GPAFor(101); ok {
		t.Error("GPAFor(101) matched a tier")
	}
}

func TestIsPassing(t *testing.T) {
	gs := defaultSystem()

	if !gs.IsPassing(50) {
		t.Error("IsPassing(50) = false, want true")
	}
	if gs.IsPassing(49.99) {
		t.Error("IsPassing(49.99) = true, want false")
	}
}

// overlapping ranges resolve to the first matching tier
func TestLetterFor_firstMatchWins(t *testing.T) {
	gs := grading.System{
		Scales: []grading.Scale{
			{GradeID: "G1", Letter: "A", MinPercentage: 50, MaxPercentage: 100},
			{GradeID: "G2", Letter: "B", MinPercentage: 40, MaxPercentage: 80},
		},
	}
	if got := gs.LetterFor(60); got != "A" {
		t.Errorf("LetterFor(60) = %s, want A (first match)", got)
	}
	if got := gs.LetterFor(45); got != "B" {
		t.Errorf("LetterFor(45) = %s, want B", got)
	}
	if got := gs.LetterFor(30); got != grading.NoGrade {
		t.Errorf("LetterFor(30) in gapped scale = %s, want %s", got, grading.NoGrade)
	}
}

func TestService_seedsDefault(t *testing.T) {
	svc := testutil.NewGradingService(t, testutil.OpenDB(t))

	gs, err := svc.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if gs.ID != "GS001" {
		t.Errorf("seeded ID = %s, want GS001", gs.ID)
	}
	if len(gs.Scales) != 8 {
		t.Errorf("seeded tiers = %d, want 8", len(gs.Scales))
	}
	if gs.PassingPercentage != 50 {
		t.Errorf("seeded passing = %v, want 50", gs.PassingPercentage)
	}

	// tier updates keep order
	updated, err := svc.UpdateScale(grading.Scale{
		GradeID: "G8", Letter: "F", MinPercentage: 0, MaxPercentage: 49.99, Description: "Resit", GPA: 0,
	})
	if err != nil {
		t.Fatalf("UpdateScale() failed: %v", err)
	}
	if updated.Scales[7].Description != "Resit" {
		t.Errorf("tier 8 = %+v, want updated in place", updated.Scales[7])
	}
}
