package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/capkit/capflow/internal/models"
)

func TestDefaultPolicyEntersRadioWithImplicitResume(t *testing.T) {
	capability := newFakeCapability()
	policy := DefaultPolicy(capability)

	d := policy(models.Event{Stage: models.StageStart, Status: models.StatusUnset})

	require.Equal(t, models.DirectiveAdvance, d.Kind())
	require.True(t, d.ImplicitResume())
	require.False(t, d.ShouldPresentDialog())
}

func TestDefaultPolicyCombinesPermissionAndServiceDialog(t *testing.T) {
	capability := newFakeCapability()
	capability.setSatisfied(models.StageRadio, true)
	// Permission and service both unsatisfied, system prompt will appear.
	capability.systemPrompt[models.StagePermission] = true

	policy := DefaultPolicy(capability)
	d := policy(models.Event{Stage: models.StageRadio, Status: models.StatusAlreadySatisfied})

	require.Equal(t, models.DirectiveAdvance, d.Kind())
	require.Equal(t, dialogPermissionAndService, d.DialogText())
	require.False(t, d.ShouldShowToast(), "system prompt appears, no instructional toast needed")
}

func TestDefaultPolicyAddsToastWhenNoSystemPrompt(t *testing.T) {
	capability := newFakeCapability()
	capability.setSatisfied(models.StageRadio, true)
	capability.setSatisfied(models.StageService, true)

	policy := DefaultPolicy(capability)
	d := policy(models.Event{Stage: models.StageRadio, Status: models.StatusAlreadySatisfied})

	require.Equal(t, dialogPermission, d.DialogText())
	require.Equal(t, toastPermission, d.ToastText())
}

func TestDefaultPolicyServiceOnlyDialog(t *testing.T) {
	capability := newFakeCapability()
	capability.setSatisfied(models.StageRadio, true)
	capability.setSatisfied(models.StagePermission, true)

	policy := DefaultPolicy(capability)
	d := policy(models.Event{Stage: models.StageRadio, Status: models.StatusAlreadySatisfied})

	require.Equal(t, dialogService, d.DialogText())
	require.Equal(t, toastService, d.ToastText())
}

func TestDefaultPolicyAdvancesWhenNothingNeeded(t *testing.T) {
	capability := newFakeCapability()
	capability.setSatisfied(models.StageRadio, true)
	capability.setSatisfied(models.StagePermission, true)
	capability.setSatisfied(models.StageService, true)

	policy := DefaultPolicy(capability)
	d := policy(models.Event{Stage: models.StageRadio, Status: models.StatusAlreadySatisfied})

	require.Equal(t, models.DirectiveAdvance, d.Kind())
	require.False(t, d.ShouldPresentDialog())
}

func TestDefaultPolicyStopsOnDeclinedPermission(t *testing.T) {
	capability := newFakeCapability()
	policy := DefaultPolicy(capability)

	for _, status := range []models.Status{models.StatusDeclinedAtPrompt, models.StatusDeclinedAtAction} {
		d := policy(models.Event{Stage: models.StageRadio, Status: status})
		require.Equal(t, models.DirectiveStop, d.Kind(), "status %s", status)
	}
}

func TestDefaultPolicyStopsOnDeclinedService(t *testing.T) {
	capability := newFakeCapability()
	policy := DefaultPolicy(capability)

	d := policy(models.Event{Stage: models.StagePermission, Status: models.StatusDeclinedAtAction})
	require.Equal(t, models.DirectiveStop, d.Kind())
}

func TestDefaultPolicyToastBeforeUnsatisfiedService(t *testing.T) {
	capability := newFakeCapability()
	policy := DefaultPolicy(capability)

	d := policy(models.Event{Stage: models.StagePermission, Status: models.StatusSatisfiedByUser})

	require.Equal(t, models.DirectiveAdvance, d.Kind())
	require.Equal(t, toastService, d.ToastText())
	require.False(t, d.ShouldPresentDialog())
}

func TestDefaultPolicyStopsAfterFinalStage(t *testing.T) {
	capability := newFakeCapability()
	policy := DefaultPolicy(capability)

	d := policy(models.Event{Stage: models.StageService, Status: models.StatusAlreadySatisfied})
	require.Equal(t, models.DirectiveStop, d.Kind())
}

func TestDefaultPolicyPassesThroughSkippedStages(t *testing.T) {
	capability := newFakeCapability()
	policy := DefaultPolicy(capability)

	d := policy(models.Event{Stage: models.StageRadio, Status: models.StatusSkipped})
	require.Equal(t, models.DirectiveAdvance, d.Kind())
	require.False(t, d.ShouldPresentDialog())
	require.False(t, d.ShouldShowToast())
}
