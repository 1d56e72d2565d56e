package faction

import "testing"

func TestNewLadderValidation(t *testing.T) {
	tests := []struct {
		name    string
		rungs   []Rung
		wantErr bool
	}{
		{"empty", nil, true},
		{"ascending", []Rung{{ID: 1, Threshold: -5}, {ID: 2, Threshold: 0}}, false},
		{"equal thresholds", []Rung{{ID: 1, Threshold: 0}, {ID: 2, Threshold: 0}}, true},
		{"descending", []Rung{{ID: 1, Threshold: 5}, {ID: 2, Threshold: 0}}, true},
		{"duplicate ids", []Rung{{ID: 1, Threshold: 0}, {ID: 1, Threshold: 5}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLadder(tt.rungs)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLadder() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRungForBoundaries(t *testing.T) {
	l := DefaultLadder()

	tests := []struct {
		value int
		want  string
	}{
		{-150, "Despised"},
		{-100, "Despised"},
		{-99, "Hated"},
		{-75, "Hated"},
		{-74, "Loathed"},
		{-25, "Disliked"},
		{-24, "Neutral"},
		{0, "Neutral"},
		{24, "Neutral"},
		{25, "Liked"},
		{99, "Venerated"},
		{100, "Revered"},
		{500, "Revered"},
	}

	for _, tt := range tests {
		if got := l.RungFor(tt.value).Name; got != tt.want {
			t.Errorf("RungFor(%d) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestStepVisitsEveryRung(t *testing.T) {
	l := DefaultLadder()
	neutral := l.Position(5)

	var visited []int
	end := l.step(neutral, 80, func(pos int) { visited = append(visited, pos) })
	if l.At(end).Name != "Venerated" {
		t.Errorf("end = %s, want Venerated", l.At(end).Name)
	}
	if len(visited) != 3 {
		t.Errorf("visited %v, want three rungs", visited)
	}

	visited = nil
	end = l.step(neutral, -60, func(pos int) { visited = append(visited, pos) })
	if l.At(end).Name != "Loathed" || len(visited) != 2 {
		t.Errorf("down: end = %s visited %v", l.At(end).Name, visited)
	}
}

func TestStepMatchesRungFor(t *testing.T) {
	l := DefaultLadder()
	for start := 0; start < l.Len(); start++ {
		for v := -120; v <= 120; v++ {
			if got, want := l.step(start, v, nil), l.step(0, v, nil); got != want {
				t.Fatalf("step(%d, %d) = %d, want %d", start, v, got, want)
			}
		}
	}
}

func TestCompareUnknownRung(t *testing.T) {
	l := DefaultLadder()
	if l.Compare(42, 1) != -1 {
		t.Error("unknown rung should sort below the bottom rung")
	}
}
