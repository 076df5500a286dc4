package models

import "testing"

func TestSuccessorReachesTerminal(t *testing.T) {
	stage := StageStart
	steps := 0
	for !stage.IsTerminal() {
		stage = stage.Next()
		steps++
		if steps > len(Stages()) {
			t.Fatal("successor chain does not terminate")
		}
	}

	// Start plus the three real stages: four steps to terminal.
	if want := len(RealStages()) + 1; steps != want {
		t.Fatalf("expected %d steps to terminal, got %d", want, steps)
	}
}

func TestTerminalIsIdempotent(t *testing.T) {
	if StageTerminal.Next() != StageTerminal {
		t.Fatal("terminal stage must be its own successor")
	}
}

func TestUnknownStageMapsToTerminal(t *testing.T) {
	if Stage("bogus").Next() != StageTerminal {
		t.Fatal("unknown stages must not escape the sequence")
	}
}

func TestStageOrder(t *testing.T) {
	want := []Stage{StageStart, StageRadio, StagePermission, StageService, StageTerminal}
	got := Stages()
	if len(got) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stage %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		satisfied  bool
		applicable bool
		want       Status
	}{
		{"not applicable wins", true, false, StatusNotApplicable},
		{"not applicable and unsatisfied", false, false, StatusNotApplicable},
		{"already satisfied", true, true, StatusAlreadySatisfied},
		{"needs action", false, true, StatusUnset},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(StageRadio, tc.satisfied, tc.applicable)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for _, stage := range RealStages() {
		for _, satisfied := range []bool{true, false} {
			for _, applicable := range []bool{true, false} {
				first := Classify(stage, satisfied, applicable)
				second := Classify(stage, satisfied, applicable)
				if first != second {
					t.Fatalf("classify(%q, %v, %v) not deterministic", stage, satisfied, applicable)
				}
			}
		}
	}
}

func TestEventNextStage(t *testing.T) {
	e := Event{Stage: StageRadio, Status: StatusUnset}
	if e.NextStage() != StagePermission {
		t.Fatalf("expected permission, got %q", e.NextStage())
	}
}

func TestStatusPredicates(t *testing.T) {
	if !StatusDeclinedAtPrompt.IsDeclined() || !StatusDeclinedAtAction.IsDeclined() {
		t.Error("declined statuses must report IsDeclined")
	}
	if StatusSkipped.IsDeclined() {
		t.Error("skipped is not a decline")
	}
	if !StatusAlreadySatisfied.IsSatisfied() || !StatusSatisfiedByUser.IsSatisfied() {
		t.Error("satisfied statuses must report IsSatisfied")
	}
	if StatusUnset.IsSatisfied() {
		t.Error("unset is not satisfied")
	}
}

func TestTransitionValidate(t *testing.T) {
	valid := &Transition{Workflow: "wf", Stage: StageRadio, Status: StatusUnset}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := &Transition{Stage: StageRadio, Status: StatusUnset}
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for missing workflow")
	}
}
