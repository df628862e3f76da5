package schema

// Index looks settings up by id across every page of a group.
type Index struct {
	settings map[string]Setting
	order    []string
}

// NewIndex indexes g. Later duplicates do not replace earlier declarations.
func NewIndex(g Group) *Index {
	idx := &Index{settings: map[string]Setting{}}
	for _, setting := range g.Settings() {
		if _, exists := idx.settings[setting.ID]; exists {
			continue
		}
		idx.settings[setting.ID] = setting
		idx.order = append(idx.order, setting.ID)
	}
	return idx
}

// Lookup returns the setting declared under id.
func (i *Index) Lookup(id string) (Setting, bool) {
	if i == nil {
		return Setting{}, false
	}
	setting, ok := i.settings[id]
	return setting, ok
}

// TypeOf returns the declared type of id, or "" when unknown.
func (i *Index) TypeOf(id string) TypeTag {
	setting, ok := i.Lookup(id)
	if !ok {
		return ""
	}
	return setting.Type
}

// IDs returns setting ids in declaration order.
func (i *Index) IDs() []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.order...)
}

// OfType returns every setting whose type is one of tags, in declaration order.
func (i *Index) OfType(tags ...TypeTag) []Setting {
	if i == nil {
		return nil
	}
	want := make(map[TypeTag]struct{}, len(tags))
	for _, tag := range tags {
		want[tag] = struct{}{}
	}
	var out []Setting
	for _, id := range i.order {
		setting := i.settings[id]
		if _, ok := want[setting.Type]; ok {
			out = append(out, setting)
		}
	}
	return out
}
