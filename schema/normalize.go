package schema

import (
	"fmt"
	"strings"
)

// Normalize returns a copy of g with malformed declarations dropped. A page
// without an id, a setting without an id or type, a value-holding setting
// without a label, and a setting pointing at an undeclared section are
// skipped and reported; the rest of the group survives.
func Normalize(g Group) (Group, []*SchemaError) {
	var problems []*SchemaError
	out := Group{ID: strings.TrimSpace(g.ID)}
	seen := map[string]struct{}{}

	for pi, page := range g.Pages {
		pagePath := fmt.Sprintf("pages[%d]", pi)
		if strings.TrimSpace(page.ID) == "" {
			problems = append(problems, schemaError(pagePath, "page id is required"))
			continue
		}
		normalized := Page{ID: SanitizeID(page.ID), Title: page.Title}

		sections := map[string]struct{}{}
		for si, section := range page.Sections {
			id := SanitizeID(section.ID)
			if id == "" {
				id = SanitizeID(section.Title)
			}
			if id == "" {
				problems = append(problems, schemaError(fmt.Sprintf("%s.sections[%d]", pagePath, si), "section id is required"))
				continue
			}
			title := section.Title
			if title == "" {
				title = section.ID
			}
			sections[id] = struct{}{}
			normalized.Sections = append(normalized.Sections, Section{ID: id, Title: title})
		}

		for si, setting := range page.Settings {
			path := fmt.Sprintf("%s.settings[%d]", pagePath, si)
			clean, problem := normalizeSetting(setting, path)
			if problem != nil {
				problems = append(problems, problem)
				continue
			}
			if len(sections) > 0 {
				if _, ok := sections[clean.Section]; !ok {
					problems = append(problems, schemaError(path, "section %q is not declared on page %q", clean.Section, normalized.ID))
					continue
				}
			}
			if _, dup := seen[clean.ID]; dup {
				problems = append(problems, schemaError(path, "duplicate setting id %q", clean.ID))
				continue
			}
			seen[clean.ID] = struct{}{}
			normalized.Settings = append(normalized.Settings, clean)
		}
		out.Pages = append(out.Pages, normalized)
	}
	return out, problems
}

func normalizeSetting(setting Setting, path string) (Setting, *SchemaError) {
	clean := setting
	clean.ID = SanitizeID(setting.ID)
	clean.Type = setting.Type.Normalize()
	clean.Section = SanitizeID(setting.Section)
	if clean.ID == "" {
		return Setting{}, schemaError(path, "setting id is required")
	}
	if clean.Type == "" {
		return Setting{}, schemaError(path, "setting %q has no type", clean.ID)
	}
	if clean.Type.HoldsValue() && strings.TrimSpace(clean.Label) == "" {
		return Setting{}, schemaError(path, "setting %q has no label", clean.ID)
	}
	if len(setting.SubSettings) > 0 {
		clean.SubSettings = make([]Setting, 0, len(setting.SubSettings))
		for i, sub := range setting.SubSettings {
			subClean, problem := normalizeSetting(sub, fmt.Sprintf("%s.settings[%d]", path, i))
			if problem != nil {
				// a broken sub-setting only drops that column
				continue
			}
			subClean.Section = ""
			clean.SubSettings = append(clean.SubSettings, subClean)
		}
	}
	return clean, nil
}
