package vapi

import (
	"encoding/json"
	"strings"
)

// Parameters is the canonical argument map produced by NormalizeArguments.
// Canonical keys carry the values the rest of the app works with; keys that
// match no alias are passed through unchanged so nothing is lost.
type Parameters map[string]interface{}

// String returns the value for key as a string, or "" when absent or not a string.
func (p Parameters) String(key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Bool returns the value for key as a boolean, treating non-bool values by
// their truthiness. Absent keys are false.
func (p Parameters) Bool(key string) bool {
	v, ok := p[key]
	if !ok {
		return false
	}
	return truthy(v)
}

// Has reports whether key is present with a non-nil, non-empty value.
func (p Parameters) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil && v != ""
}

// StringList returns the value for key as a list of strings. JSON arrays of
// mixed types keep only their string elements.
func (p Parameters) StringList(key string) []string {
	v, ok := p[key]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		var out []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// parameterAliases maps each canonical key to the argument names Vapi has been
// seen sending for it. Order matters: the first alias present with a usable
// value wins.
var parameterAliases = []struct {
	canonical string
	aliases   []string
}{
	{"caller_name", []string{"caller_name", "name", "caller", "callerFullName"}},
	{"caller_phone", []string{"caller_phone", "phone", "from", "caller_phone_number", "callerPhone"}},
	{"caller_email", []string{"caller_email", "email", "callerEmail"}},
	{"caller_role", []string{"caller_role", "role", "user_role"}},
	{"asset_type", []string{"asset_type", "asset", "property_type", "assetType"}},
	{"location", []string{"location", "city", "market"}},
	{"deal_size", []string{"deal_size", "value", "budget_range", "dealValue"}},
	{"urgency", []string{"urgency", "timeline"}},
	{"inquiry_summary", []string{"inquiry_summary", "inquiry", "summary", "notes"}},
	{"additional_notes", []string{"additional_notes", "notes", "extra_notes"}},
	{"is_hot_lead", []string{"is_hot_lead", "is_hot", "hot", "hot_lead"}},
	{"conversation_topics", []string{"conversation_topics", "topics"}},
	{"questions_asked", []string{"questions_asked", "questions"}},
}

// knownAliases is the flat set of every alias above, used to decide which
// incoming keys pass through untouched.
var knownAliases = func() map[string]bool {
	set := make(map[string]bool)
	for _, entry := range parameterAliases {
		for _, alias := range entry.aliases {
			set[alias] = true
		}
	}
	return set
}()

// NormalizeArguments maps the loosely structured arguments of a tool call to
// canonical parameter names. It accepts a decoded JSON object, a JSON-encoded
// string (double or single quoted), or anything else, in which case it
// returns an empty map rather than failing.
func NormalizeArguments(raw interface{}) Parameters {
	args := argumentMap(raw)
	if len(args) == 0 {
		return Parameters{}
	}

	canonical := Parameters{}

	// First alias present with a non-nil, non-empty value wins.
	for _, entry := range parameterAliases {
		for _, alias := range entry.aliases {
			v, ok := args[alias]
			if ok && v != nil && v != "" {
				canonical[entry.canonical] = v
				break
			}
		}
	}

	// Copy any other keys intact so nothing is lost.
	for k, v := range args {
		if !knownAliases[k] {
			canonical[k] = v
		}
	}

	// Ensure the hot-lead flag ends up a real boolean.
	if v, ok := canonical["is_hot_lead"]; ok {
		if s, ok := v.(string); ok {
			switch strings.ToLower(s) {
			case "1", "true", "yes":
				canonical["is_hot_lead"] = true
			default:
				canonical["is_hot_lead"] = false
			}
		} else {
			canonical["is_hot_lead"] = truthy(v)
		}
	}

	return canonical
}

// argumentMap coerces a raw arguments value into a map, tolerating
// string-encoded and single-quoted pseudo-JSON. Unparseable input yields nil.
func argumentMap(raw interface{}) map[string]interface{} {
	switch v := raw.(type) {
	case map[string]interface{}:
		return v
	case Parameters:
		return v
	case string:
		return parseLooseJSON(v)
	}
	return nil
}

func parseLooseJSON(s string) map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out
	}
	// Some agents emit Python-style single-quoted dicts.
	if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &out); err == nil {
		return out
	}
	return nil
}

// truthy mirrors loose boolean coercion for JSON values: zero numbers, empty
// strings, empty collections and nil are false, everything else true.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	}
	return true
}
