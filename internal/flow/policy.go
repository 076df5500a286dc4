package flow

import "github.com/capkit/capflow/internal/models"

// Default policy presentation text. These are one illustrative set of
// prompts; hosts with their own wording supply their own DecisionFunc.
const (
	dialogPermissionAndService = "This app needs a runtime permission to continue. " +
		"Enabling the background service is also recommended for better results. " +
		"Accept to grant the permission and enable the service."

	dialogPermission = "This app needs a runtime permission to continue. " +
		"Accept to grant the permission."

	dialogService = "Enabling the background service is recommended for better results. " +
		"It is not required, but turning it on improves the experience."

	toastPermission = "Open Permissions, enable the permission, then return here."

	toastService = "Enable the service, then return here."
)

// DefaultPolicy returns the reference decision policy. It advances past
// the radio stage unconditionally with implicit resumption, prompts once
// for the permission stage (folding the service stage into the same dialog
// when both will be needed), treats a declined permission as fatal, and
// stops after the final stage. Statuses it does not recognize, such as
// skipped or not-applicable stages, fall through to a plain advance.
//
// When the platform will not show its own dialog for the permission
// request, an instructional notification is added so the user knows what
// to do on the settings screen they are about to land on.
func DefaultPolicy(capability CapabilityAdapter) DecisionFunc {
	return func(e models.Event) Directive {
		switch {
		case e.NextStage() == models.StageRadio:
			return DoNext().WithImplicitResume()

		case e.NextStage() == models.StagePermission:
			if e.Status.IsSatisfied() {
				return permissionDirective(capability)
			}
			if e.Status.IsDeclined() {
				return Stop()
			}

		case e.NextStage() == models.StageService:
			if e.Status.IsSatisfied() {
				if !capability.IsSatisfied(models.StageService) {
					return DoNext().WithImplicitResume().WithToast(toastService)
				}
				return DoNext().WithImplicitResume()
			}
			if e.Status.IsDeclined() {
				return Stop()
			}

		case e.Stage == models.StageService:
			return Stop()
		}

		// Skipped and not-applicable stages pass through without prompts.
		return DoNext()
	}
}

// permissionDirective builds the directive entering the permission stage,
// choosing between permission-only, service-only, and combined dialogs
// based on what is still unsatisfied.
func permissionDirective(capability CapabilityAdapter) Directive {
	permissionOK := capability.IsSatisfied(models.StagePermission)
	serviceOK := capability.IsSatisfied(models.StageService)

	switch {
	case !permissionOK && !serviceOK:
		d := DoNext().WithImplicitResume().WithDialog(dialogPermissionAndService)
		if !capability.WillSystemPromptAppear(models.StagePermission) {
			d = d.WithToast(toastPermission)
		}
		return d

	case !permissionOK:
		d := DoNext().WithImplicitResume().WithDialog(dialogPermission)
		if !capability.WillSystemPromptAppear(models.StagePermission) {
			d = d.WithToast(toastPermission)
		}
		return d

	case !serviceOK:
		return DoNext().WithImplicitResume().WithDialog(dialogService).WithToast(toastService)

	default:
		// Nothing left to enable here; walk the remaining stages so the
		// policy still observes their statuses.
		return DoNext().WithImplicitResume()
	}
}
