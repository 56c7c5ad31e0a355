package geometry

import "testing"

// ─────────────────────────────────────────────────────────────
// SnapSolver tests
// ─────────────────────────────────────────────────────────────

func TestSolveAxis_NoSnapIdentity(t *testing.T) {
	// No target within threshold: zero offset and nil guide.
	res := SolveAxis([]float64{0.5}, []float64{0.1, 0.9}, 0.02)
	if res.Offset != 0 {
		t.Errorf("offset: got %v, expected 0", res.Offset)
	}
	if res.Guide != nil {
		t.Errorf("guide: got %v, expected nil", *res.Guide)
	}

	res = SolveAxis(nil, []float64{0.5}, 0.02)
	if res.Offset != 0 || res.Guide != nil {
		t.Error("empty moving set should not snap")
	}
}

func TestSolveAxis_NearestPairWins(t *testing.T) {
	moving := []float64{0.30, 0.40}
	targets := []float64{0.315, 0.395, 0.8}
	res := SolveAxis(moving, targets, 0.02)
	// 0.40 -> 0.395 (distance 0.005) beats 0.30 -> 0.315 (0.015).
	if res.Guide == nil || *res.Guide != 0.395 {
		t.Fatalf("expected guide 0.395, got %v", res.Guide)
	}
	if diff := res.Offset - (-0.005); diff > 1e-12 || diff < -1e-12 {
		t.Errorf("offset: got %v, expected -0.005", res.Offset)
	}
}

func TestSolveAxis_ExactHitProducesGuide(t *testing.T) {
	res := SolveAxis([]float64{0.42}, []float64{0.42}, 0.02)
	if res.Offset != 0 {
		t.Errorf("offset: got %v, expected 0", res.Offset)
	}
	if res.Guide == nil || *res.Guide != 0.42 {
		t.Errorf("expected guide at 0.42, got %v", res.Guide)
	}
}

func TestSolveAxis_ThresholdBoundaryInclusive(t *testing.T) {
	// Exactly representable values so the boundary comparison is exact.
	res := SolveAxis([]float64{0.5}, []float64{0.625}, 0.125)
	if res.Guide == nil {
		t.Fatal("distance equal to threshold should snap")
	}
}
