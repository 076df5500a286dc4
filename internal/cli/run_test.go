package cli

import (
	"strings"
	"testing"

	"github.com/capkit/capflow/internal/flow"
	"github.com/capkit/capflow/internal/models"
	"github.com/capkit/capflow/internal/sim"
	"github.com/capkit/capflow/internal/term"
)

func TestParseStage(t *testing.T) {
	for _, name := range []string{"radio", "permission", "service"} {
		if _, err := parseStage(name); err != nil {
			t.Errorf("parseStage(%q): %v", name, err)
		}
	}
	if _, err := parseStage("telemetry"); err == nil {
		t.Error("expected error for unknown stage name")
	}
}

func TestBuildPlatformAppliesFlags(t *testing.T) {
	runSatisfied = []string{"radio"}
	runInapplicable = []string{"permission"}
	runDenied = []string{"service"}
	runSystemPrompt = nil
	t.Cleanup(func() {
		runSatisfied, runInapplicable, runDenied, runSystemPrompt = nil, nil, nil, nil
	})

	platform, err := buildPlatform()
	if err != nil {
		t.Fatalf("buildPlatform: %v", err)
	}

	if !platform.IsSatisfied(models.StageRadio) {
		t.Error("radio must start satisfied")
	}
	if platform.IsApplicable(models.StagePermission) {
		t.Error("permission must be inapplicable")
	}
}

func TestDriveCompletesWorkflow(t *testing.T) {
	platform := sim.New(sim.Config{
		models.StageRadio:      {GrantOnRequest: true},
		models.StagePermission: {GrantOnRequest: true},
		models.StageService:    {GrantOnRequest: true},
	})

	var out strings.Builder
	presenter := term.NewPresenter(term.WithIO(strings.NewReader(""), &out), term.WithNonInteractive(true))

	engine := flow.Start(platform, presenter, flow.Config{
		Decide: flow.DefaultPolicy(platform),
	})

	if err := drive(engine, platform); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if !engine.Done() {
		t.Fatalf("expected workflow to finish, stuck at %s", engine.CurrentStage())
	}
}

func TestDriveStopsWhenUserBacksOut(t *testing.T) {
	platform := sim.New(sim.Config{
		models.StageRadio: {GrantOnRequest: false},
	})

	var out strings.Builder
	presenter := term.NewPresenter(term.WithIO(strings.NewReader(""), &out), term.WithNonInteractive(true))

	engine := flow.Start(platform, presenter, flow.Config{
		Decide: flow.DefaultPolicy(platform),
	})

	if err := drive(engine, platform); err != nil {
		t.Fatalf("drive: %v", err)
	}
	if !engine.Done() {
		t.Fatal("declined radio action must end the workflow under the default policy")
	}
	if platform.IsSatisfied(models.StageRadio) {
		t.Fatal("radio must remain unsatisfied")
	}
}
