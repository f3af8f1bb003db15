package domlocate

import "github.com/domlocate/domlocate/internal/types"

// Public aliases for the engine's data model, defined in internal/types so
// the scorer packages can share them without import cycles.

// ElementDescriptor is a structured record of one page element's observable
// attributes and geometry, produced by an external page scanner.
type ElementDescriptor = types.ElementDescriptor

// BoundingBox describes element geometry in viewport coordinates.
type BoundingBox = types.BoundingBox

// ElementMatch pairs a descriptor snapshot with the engine's confidence.
type ElementMatch = types.ElementMatch

// ScoreBreakdown carries the component, raw fused, and calibrated scores.
type ScoreBreakdown = types.ScoreBreakdown

// JudgeConfidence is the sentinel confidence assigned to judgment-promoted
// matches; ElementMatch.SelectedByJudge records the promotion explicitly.
const JudgeConfidence = types.JudgeConfidence

// Inferred element roles usable with ResolveByRole.
const (
	RoleSearchInput   = types.RoleSearchInput
	RoleEmailInput    = types.RoleEmailInput
	RolePasswordInput = types.RolePasswordInput
	RoleTextInput     = types.RoleTextInput
	RoleCheckboxInput = types.RoleCheckboxInput
	RoleRadioInput    = types.RoleRadioInput
	RoleFileInput     = types.RoleFileInput
	RoleSelectInput   = types.RoleSelectInput
	RoleTextareaInput = types.RoleTextareaInput
	RoleSubmitButton  = types.RoleSubmitButton
	RoleLoginButton   = types.RoleLoginButton
	RoleButton        = types.RoleButton
	RoleLink          = types.RoleLink
	RoleGeneric       = types.RoleGeneric
)
