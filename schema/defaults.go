package schema

// Defaults builds the ValueSet a group starts with: every value-holding
// setting that declares a default contributes a copy of it.
func Defaults(g Group) ValueSet {
	out := ValueSet{}
	for _, setting := range g.Settings() {
		if !setting.Type.HoldsValue() || setting.Default == nil {
			continue
		}
		out[setting.ID] = CloneValue(setting.Default)
	}
	return out
}
