package slide

import "strconv"

// NestedValue walks a tree of nested string-keyed maps along the given key
// path, left to right. It returns def the moment a key is missing or an
// intermediate value is not a map. An empty path returns root itself.
//
// Vendor metadata arrives as deeply nested dictionaries; this is the one
// general-purpose lookup shared by all adapters.
func NestedValue(root any, path []string, def any) any {
	cur := root
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		cur, ok = m[key]
		if !ok {
			return def
		}
	}
	return cur
}

// nestedFloat resolves a path to a float64, returning nil when the value is
// absent or not numeric. XML-derived trees carry numbers as text, so string
// values are parsed.
func nestedFloat(root any, path ...string) *float64 {
	switch v := NestedValue(root, path, nil).(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// nestedString resolves a path to a string, returning "" when absent.
func nestedString(root any, path ...string) string {
	if s, ok := NestedValue(root, path, nil).(string); ok {
		return s
	}
	return ""
}
