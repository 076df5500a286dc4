package flow

import (
	"context"
	"testing"

	"github.com/capkit/capflow/internal/models"
)

func TestDirectiveFactories(t *testing.T) {
	cases := []struct {
		directive Directive
		kind      models.DirectiveKind
	}{
		{DoNext(), models.DirectiveAdvance},
		{SkipNext(), models.DirectiveSkipNext},
		{Stop(), models.DirectiveStop},
		{Pause(), models.DirectivePause},
	}

	for _, tc := range cases {
		if tc.directive.Kind() != tc.kind {
			t.Errorf("expected kind %q, got %q", tc.kind, tc.directive.Kind())
		}
		if tc.directive.Token() != DefaultToken {
			t.Errorf("expected default token for %q, got %q", tc.kind, tc.directive.Token())
		}
		if tc.directive.ImplicitResume() {
			t.Errorf("implicit resume must be off by default for %q", tc.kind)
		}
	}
}

func TestDirectiveConfigurationReturnsCopies(t *testing.T) {
	base := DoNext()
	configured := base.WithDialog("hello").WithToast("world").WithImplicitResume()

	if base.DialogText() != "" || base.ToastText() != "" || base.ImplicitResume() {
		t.Fatal("base directive was mutated by configuration")
	}
	if configured.DialogText() != "hello" || configured.ToastText() != "world" {
		t.Fatalf("configured directive missing presentation hints: %+v", configured)
	}
	if !configured.ImplicitResume() {
		t.Fatal("configured directive missing implicit resume flag")
	}
}

func TestDirectivesCompareByValue(t *testing.T) {
	a := DoNext().WithDialog("x").WithToken("t")
	b := DoNext().WithDialog("x").WithToken("t")

	if a != b {
		t.Fatal("identically configured directives must compare equal")
	}
	if a == b.WithToast("y") {
		t.Fatal("differently configured directives must not compare equal")
	}
}

func TestShouldPresentDialog(t *testing.T) {
	if DoNext().ShouldPresentDialog() {
		t.Error("no dialog text, must not present")
	}
	if !DoNext().WithDialog("m").ShouldPresentDialog() {
		t.Error("advance with dialog text must present")
	}
	if !Stop().WithDialog("m").ShouldPresentDialog() {
		t.Error("stop with dialog text must present")
	}
	if Pause().WithDialog("m").ShouldPresentDialog() {
		t.Error("pause never presents a dialog")
	}
}

func TestWithContextOverride(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, 1)

	d := DoNext().WithContext(ctx)
	if d.Context() != ctx {
		t.Fatal("override context not carried")
	}
	if DoNext().Context() != nil {
		t.Fatal("default directive must carry no override context")
	}
}

func TestNewTokenIsUnique(t *testing.T) {
	a, b := NewToken(), NewToken()
	if a == b {
		t.Fatal("tokens must be unique")
	}
	if a == DefaultToken || b == DefaultToken {
		t.Fatal("generated token collided with the reserved sentinel")
	}
}
