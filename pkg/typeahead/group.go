package typeahead

// Group partitions an ordered, already-limited collection into labeled
// groups. Distinct group keys are recorded in first-seen order; each group
// contributes one header entry followed by its members in their original
// relative order. Without a configured group field every option maps
// directly to a plain entry.
func (c Config) Group(options []any) []MatchEntry {
	accessor := c.groupAccessor()
	if accessor == nil {
		entries := make([]MatchEntry, 0, len(options))
		for _, option := range options {
			entries = append(entries, MatchEntry{Item: option, Value: c.DisplayValue(option)})
		}
		return entries
	}

	var order []string
	members := make(map[string][]any)
	for _, option := range options {
		key, ok := accessor(option)
		if !ok {
			// Options without a group key gather under the empty label.
			key = ""
		}
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], option)
	}

	entries := make([]MatchEntry, 0, len(options)+len(order))
	for _, group := range order {
		entries = append(entries, MatchEntry{Item: group, Value: group, IsHeader: true})
		for _, option := range members[group] {
			entries = append(entries, MatchEntry{Item: option, Value: c.DisplayValue(option)})
		}
	}
	return entries
}

// Prepare applies the post-fetch pipeline to a raw option collection in
// fixed order: truncate to the options limit, order, then group. The
// truncation happens before ordering, so ordering never reaches across a
// cut that grouping would later expose.
func Prepare(cfg Config, options []any) []MatchEntry {
	cfg = cfg.withDefaults()
	if cfg.OptionsLimit > 0 && len(options) > cfg.OptionsLimit {
		options = options[:cfg.OptionsLimit]
	}
	options = Order(options, cfg.OrderBy)
	return cfg.Group(options)
}
