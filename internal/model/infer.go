package model

import "strings"

// InferContext builds a Context from heuristics over the action data when
// the caller did not supply one. Best-effort: absence of a signal keeps
// the NewContext defaults, and nothing here can fail.
func InferContext(actionType, actor string, actionData map[string]any) Context {
	ctx := NewContext(actionType, actor)

	lower := strings.ToLower(actionType)

	// Monitoring and background work is intentionally non-visible; that is
	// not by itself a transparency signal.
	if strings.Contains(lower, "monitor") || strings.Contains(lower, "background") {
		ctx.UserVisible = false
	}
	if strings.Contains(lower, "modify") || strings.Contains(lower, "install") ||
		strings.Contains(lower, "delete") || strings.Contains(lower, "system") {
		ctx.SystemModify = true
	}

	if actionData == nil {
		return ctx
	}
	ctx.Metadata = actionData

	if v, ok := actionData["consent"]; ok {
		b := truthy(v)
		ctx.UserConsent = &b
	}
	if v, ok := actionData["user_consent"]; ok {
		b := truthy(v)
		ctx.UserConsent = &b
	}
	if v, ok := actionData["sensitive"]; ok {
		ctx.SensitiveData = truthy(v)
	}
	if v, ok := actionData["sensitive_data"]; ok {
		ctx.SensitiveData = truthy(v)
	}
	if v, ok := actionData["persistent"]; ok {
		ctx.Persistent = truthy(v)
	}
	if v, ok := actionData["irreversible"]; ok {
		ctx.Reversible = !truthy(v)
	}
	if v, ok := actionData["reversible"]; ok {
		ctx.Reversible = truthy(v)
	}
	if s, ok := actionData["scope"].(string); ok {
		ctx.Scope = ParseScope(s)
	}
	if s, ok := actionData["target"].(string); ok {
		ctx.Target = s
	}

	return ctx
}

// truthy coerces loosely typed action-data values to a boolean signal.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(t) {
		case "true", "yes", "1":
			return true
		}
		return false
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		// Presence of a non-empty value counts as a signal.
		return v != nil
	}
}
