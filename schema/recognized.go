package schema

import "strconv"

// Recognized value tables used by the composite types. Each table is ordered
// the way the admin form lists it.

// FontFamilies maps font family keys to their CSS font stacks.
func FontFamilies() []Choice {
	return []Choice{
		{Value: "arial", Label: "Arial, Helvetica, sans-serif"},
		{Value: "georgia", Label: "Georgia, serif"},
		{Value: "helvetica", Label: "Helvetica, sans-serif"},
		{Value: "palatino", Label: `"Palatino Linotype", "Book Antiqua", Palatino, serif`},
		{Value: "tahoma", Label: "Tahoma, Geneva, sans-serif"},
		{Value: "times", Label: `"Times New Roman", sans-serif`},
		{Value: "trebuchet", Label: `"Trebuchet MS", Helvetica, sans-serif`},
		{Value: "verdana", Label: "Verdana, Geneva, sans-serif"},
	}
}

// FontStack returns the CSS stack for a recognized family key, or key itself.
func FontStack(key string) string {
	for _, family := range FontFamilies() {
		if family.Value == key {
			return family.Label
		}
	}
	return key
}

// FontSizes lists 0px through 150px.
func FontSizes() []Choice {
	return pixelRange(0, 150)
}

// LineHeights lists 0px through 150px.
func LineHeights() []Choice {
	return pixelRange(0, 150)
}

// LetterSpacing lists -0.1em through 0.1em in 0.01em steps.
func LetterSpacing() []Choice {
	out := make([]Choice, 0, 21)
	for i := -10; i <= 10; i++ {
		value := strconv.FormatFloat(float64(i)/100, 'f', -1, 64) + "em"
		out = append(out, Choice{Value: value, Label: value})
	}
	return out
}

func FontStyles() []Choice {
	return same("normal", "italic", "oblique", "inherit")
}

func FontVariants() []Choice {
	return same("normal", "small-caps", "inherit")
}

func FontWeights() []Choice {
	return same("normal", "bold", "bolder", "lighter",
		"100", "200", "300", "400", "500", "600", "700", "800", "900", "inherit")
}

func TextDecorations() []Choice {
	return same("blink", "inherit", "line-through", "none", "overline", "underline")
}

func TextTransforms() []Choice {
	return same("capitalize", "inherit", "lowercase", "none", "uppercase")
}

func BackgroundRepeat() []Choice {
	return same("no-repeat", "repeat", "repeat-x", "repeat-y", "inherit")
}

func BackgroundAttachment() []Choice {
	return same("fixed", "scroll", "inherit")
}

// BackgroundPositions lists the nine keyword positions.
func BackgroundPositions() []Choice {
	var out []Choice
	for _, x := range []string{"left", "center", "right"} {
		for _, y := range []string{"top", "center", "bottom"} {
			value := x + " " + y
			out = append(out, Choice{Value: value, Label: value})
		}
	}
	return out
}

func BorderStyles() []Choice {
	return same("hidden", "dashed", "solid", "double", "groove", "ridge", "inset", "outset")
}

// MeasurementUnits are the units offered by measurement, border, dimension
// and spacing inputs.
func MeasurementUnits() []Choice {
	return same("px", "%", "em", "pt")
}

// RadioImages are the layout choices offered by radio-image settings that
// declare none.
func RadioImages() []Choice {
	return []Choice{
		{Value: "left-sidebar", Label: "Left Sidebar", ImageSrc: "images/layout/left-sidebar.png"},
		{Value: "right-sidebar", Label: "Right Sidebar", ImageSrc: "images/layout/right-sidebar.png"},
		{Value: "full-width", Label: "Full Width (no sidebar)", ImageSrc: "images/layout/full-width.png"},
		{Value: "dual-sidebar", Label: "Dual Sidebar", ImageSrc: "images/layout/dual-sidebar.png"},
		{Value: "left-dual-sidebar", Label: "Left Dual Sidebar", ImageSrc: "images/layout/left-dual-sidebar.png"},
		{Value: "right-dual-sidebar", Label: "Right Dual Sidebar", ImageSrc: "images/layout/right-dual-sidebar.png"},
	}
}

// Recognized returns the named table, used by renderers and the CLI.
func Recognized(name string) ([]Choice, bool) {
	tables := map[string]func() []Choice{
		"font-family":           FontFamilies,
		"font-size":             FontSizes,
		"font-style":            FontStyles,
		"font-variant":          FontVariants,
		"font-weight":           FontWeights,
		"letter-spacing":        LetterSpacing,
		"line-height":           LineHeights,
		"text-decoration":       TextDecorations,
		"text-transform":        TextTransforms,
		"background-repeat":     BackgroundRepeat,
		"background-attachment": BackgroundAttachment,
		"background-position":   BackgroundPositions,
		"border-style":          BorderStyles,
		"unit":                  MeasurementUnits,
		"radio-image":           RadioImages,
	}
	table, ok := tables[name]
	if !ok {
		return nil, false
	}
	return table(), true
}

func pixelRange(from, to int) []Choice {
	out := make([]Choice, 0, to-from+1)
	for i := from; i <= to; i++ {
		value := strconv.Itoa(i) + "px"
		out = append(out, Choice{Value: value, Label: value})
	}
	return out
}

func same(values ...string) []Choice {
	out := make([]Choice, len(values))
	for i, value := range values {
		out[i] = Choice{Value: value, Label: value}
	}
	return out
}
