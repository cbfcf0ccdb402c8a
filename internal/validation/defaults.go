package validation

// ApplyDefaults fills absent object properties with the "default" declared in
// schema, descending into nested objects and array items. Present values are
// never replaced, including present values of the wrong type, so the schema
// check that follows can reject them. The payload is modified in place.
func ApplyDefaults(schema map[string]any, payload map[string]any) {
	if schema == nil || payload == nil {
		return
	}
	properties, _ := schema["properties"].(map[string]any)
	for name, rawProp := range properties {
		prop, ok := rawProp.(map[string]any)
		if !ok {
			continue
		}
		current, present := payload[name]
		if !present {
			def, hasDefault := prop["default"]
			if !hasDefault {
				continue
			}
			current = cloneValue(def)
			payload[name] = current
		}
		applyNested(prop, current)
	}
}

func applyNested(schema map[string]any, value any) {
	switch typed := value.(type) {
	case map[string]any:
		ApplyDefaults(schema, typed)
	case []any:
		items, ok := schema["items"].(map[string]any)
		if !ok {
			return
		}
		for _, item := range typed {
			if obj, ok := item.(map[string]any); ok {
				ApplyDefaults(items, obj)
			}
		}
	}
}
