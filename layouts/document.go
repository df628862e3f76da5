package layouts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/goliatone/go-optionbuilder/schema"
)

const (
	// ActiveKey holds the active layout id inside the stored document.
	ActiveKey = "active_layout"
	// AddNewKey carries a new layout name in admin form submissions.
	AddNewKey = "_add_new_layout_"
)

var ErrInvalidName = fmt.Errorf("layouts: invalid layout name")

var edgeUnderscores = regexp.MustCompile(`^_+|_+$`)

// LayoutID turns a display name into a layout id in the setting id charset.
func LayoutID(name string) (string, error) {
	id := edgeUnderscores.ReplaceAllString(schema.SanitizeID(slug.Make(name)), "")
	if id == "" || id == ActiveKey || id == strings.Trim(AddNewKey, "_") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return id, nil
}

// Document is the persisted layouts store: encoded snapshots keyed by
// layout id, in insertion order, plus the active layout id.
type Document struct {
	active    string
	order     []string
	snapshots map[string]string
}

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{snapshots: map[string]string{}}
}

func (d Document) Active() string { return d.active }

// Len counts layouts; the active pointer is not a layout.
func (d Document) Len() int { return len(d.order) }

// IDs returns layout ids in insertion order.
func (d Document) IDs() []string {
	return append([]string(nil), d.order...)
}

// Sorted returns layout ids in natural order.
func (d Document) Sorted() []string {
	ids := d.IDs()
	sort.Sort(natural.StringSlice(ids))
	return ids
}

func (d Document) Snapshot(id string) (string, bool) {
	blob, ok := d.snapshots[id]
	return blob, ok
}

func (d Document) Has(id string) bool {
	_, ok := d.snapshots[id]
	return ok
}

// Clone returns a deep copy safe to mutate.
func (d Document) Clone() Document {
	out := Document{
		active:    d.active,
		order:     append([]string(nil), d.order...),
		snapshots: make(map[string]string, len(d.snapshots)),
	}
	for id, blob := range d.snapshots {
		out.snapshots[id] = blob
	}
	return out
}

// Put stores blob under id. Existing ids keep their position.
func (d *Document) Put(id, blob string) {
	if d.snapshots == nil {
		d.snapshots = map[string]string{}
	}
	if _, exists := d.snapshots[id]; !exists {
		d.order = append(d.order, id)
	}
	d.snapshots[id] = blob
}

// Remove drops id and reports whether it existed. Removing the active
// layout clears the active pointer.
func (d *Document) Remove(id string) bool {
	if _, ok := d.snapshots[id]; !ok {
		return false
	}
	delete(d.snapshots, id)
	for i, existing := range d.order {
		if existing == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	if d.active == id {
		d.active = ""
	}
	return true
}

// SetActive points the document at id, which must exist.
func (d *Document) SetActive(id string) error {
	if !d.Has(id) {
		return fmt.Errorf("layouts: unknown layout %q", id)
	}
	d.active = id
	return nil
}

// MarshalJSON writes the flat form: active_layout followed by every layout
// in insertion order.
func (d Document) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	var err error
	if d.active != "" {
		if out, err = sjson.SetBytes(out, ActiveKey, d.active); err != nil {
			return nil, err
		}
	}
	for _, id := range d.order {
		if out, err = sjson.SetBytes(out, escapePath(id), d.snapshots[id]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d *Document) UnmarshalJSON(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("layouts: invalid document")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return fmt.Errorf("layouts: document is not an object")
	}
	next := NewDocument()
	active := ""
	root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == ActiveKey {
			active = value.String()
			return true
		}
		if value.Type == gjson.String && value.String() != "" {
			next.Put(key.String(), value.String())
		}
		return true
	})
	if next.Has(active) {
		next.active = active
	}
	*d = next
	return nil
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// escapePath quotes a key for sjson. All-digit keys get the ':' prefix so
// they stay object keys.
func escapePath(key string) string {
	if digitsOnly.MatchString(key) {
		return ":" + key
	}
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`, ":", `\:`)
	return replacer.Replace(key)
}
