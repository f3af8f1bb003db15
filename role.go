package domlocate

import (
	"strings"

	"github.com/domlocate/domlocate/internal/textscore"
	"github.com/domlocate/domlocate/internal/types"
)

// roleCueThreshold is the minimum fuzzy text score for a cue phrase to
// influence role inference.
const roleCueThreshold = 0.75

// inputTypeRoles maps explicit input type attributes to roles. The attribute
// is the strongest signal and wins over text when present.
var inputTypeRoles = map[string]string{
	"search":   types.RoleSearchInput,
	"email":    types.RoleEmailInput,
	"password": types.RolePasswordInput,
	"text":     types.RoleTextInput,
	"checkbox": types.RoleCheckboxInput,
	"radio":    types.RoleRadioInput,
	"file":     types.RoleFileInput,
	"submit":   types.RoleSubmitButton,
	"image":    types.RoleSubmitButton,
	"button":   types.RoleButton,
}

var (
	loginCues  = []string{"log in", "login", "sign in", "signin"}
	submitCues = []string{"submit", "continue", "send", "apply", "save"}
	searchCues = []string{"search", "find"}
)

// inferRole assigns a role from the highest-confidence signal available:
// explicit input type attribute, then fuzzy text cues, then the bare tag.
func inferRole(d types.ElementDescriptor, ts *textscore.Scorer) string {
	tag := strings.ToLower(d.TagName)
	inputType := strings.ToLower(d.InputType)

	switch tag {
	case "select":
		return types.RoleSelectInput
	case "textarea":
		return types.RoleTextareaInput
	case "a":
		return types.RoleLink
	case "input":
		if role, ok := inputTypeRoles[inputType]; ok {
			if role == types.RoleSubmitButton && matchesCue(ts, d, loginCues) {
				return types.RoleLoginButton
			}
			return role
		}
		// Untyped inputs render as text fields; text cues refine further.
		if matchesCue(ts, d, searchCues) {
			return types.RoleSearchInput
		}
		return types.RoleTextInput
	case "button":
		if matchesCue(ts, d, loginCues) {
			return types.RoleLoginButton
		}
		if inputType == "submit" || matchesCue(ts, d, submitCues) {
			return types.RoleSubmitButton
		}
		return types.RoleButton
	}
	return types.RoleGeneric
}

func matchesCue(ts *textscore.Scorer, d types.ElementDescriptor, cues []string) bool {
	surfaces := d.TextSurfaces()
	if len(surfaces) == 0 {
		return false
	}
	for _, cue := range cues {
		if ts.BestMatch(cue, surfaces) >= roleCueThreshold {
			return true
		}
	}
	return false
}
