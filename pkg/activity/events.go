package activity

import (
	"strings"
	"time"
)

// Verbs emitted by the option builder.
const (
	VerbSettingsSaved    = "settings.saved"
	VerbLayoutCreated    = "layout.created"
	VerbLayoutActivated  = "layout.activated"
	VerbLayoutDeleted    = "layout.deleted"
	VerbLayoutsCollapsed = "layouts.collapsed"
	VerbCSSWritten       = "css.written"
	VerbCSSCleared       = "css.cleared"
	VerbPayloadRejected  = "payload.rejected"
)

// Object types carried by option builder events.
const (
	ObjectOptionGroup = "option_group"
	ObjectLayout      = "layout"
	ObjectStylesheet  = "stylesheet"
)

// EventInput holds the fields shared by every option builder event.
type EventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	Group          string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	SnapshotID     string
	OccurredAt     time.Time
}

// BuildSettingsSavedEvent describes a whole-group replace. changed lists the
// setting ids whose values differ from the previous value set.
func BuildSettingsSavedEvent(input EventInput, changed []string, diagnostics int) Event {
	meta := map[string]any{"diagnostics": diagnostics}
	if len(changed) > 0 {
		meta["changed"] = append([]string{}, changed...)
	}
	return build(VerbSettingsSaved, ObjectOptionGroup, input.Group, input, meta)
}

func BuildLayoutCreatedEvent(input EventInput, layoutID string) Event {
	return build(VerbLayoutCreated, ObjectLayout, layoutID, input, nil)
}

// BuildLayoutActivatedEvent records a layout becoming active. dropped lists
// snapshot keys that no longer exist in the current schema.
func BuildLayoutActivatedEvent(input EventInput, layoutID string, dropped []string) Event {
	var meta map[string]any
	if len(dropped) > 0 {
		meta = map[string]any{"dropped": append([]string{}, dropped...)}
	}
	return build(VerbLayoutActivated, ObjectLayout, layoutID, input, meta)
}

// BuildLayoutDeletedEvent records a removal; promoted names the layout that
// became active in its place, if any.
func BuildLayoutDeletedEvent(input EventInput, layoutID, promoted string) Event {
	var meta map[string]any
	if promoted != "" {
		meta = map[string]any{"promoted": promoted}
	}
	return build(VerbLayoutDeleted, ObjectLayout, layoutID, input, meta)
}

// BuildLayoutsCollapsedEvent records the layouts store being dropped because
// fewer than two layouts remained.
func BuildLayoutsCollapsedEvent(input EventInput) Event {
	return build(VerbLayoutsCollapsed, ObjectOptionGroup, input.Group, input, nil)
}

func BuildCSSWrittenEvent(input EventInput, path, marker string) Event {
	return build(VerbCSSWritten, ObjectStylesheet, path, input, map[string]any{"marker": marker})
}

func BuildCSSClearedEvent(input EventInput, path, marker string) Event {
	return build(VerbCSSCleared, ObjectStylesheet, path, input, map[string]any{"marker": marker})
}

// BuildPayloadRejectedEvent records a snapshot blob refused by the decoder.
func BuildPayloadRejectedEvent(input EventInput, objectID, reason string) Event {
	return build(VerbPayloadRejected, ObjectLayout, objectID, input, map[string]any{"reason": reason})
}

func build(verb, objectType, objectID string, input EventInput, extra map[string]any) Event {
	metadata := cloneMap(input.Metadata)
	for key, value := range extra {
		metadata = ensureMetadata(metadata)
		metadata[key] = value
	}
	if input.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.SnapshotID
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Group)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		Group:          strings.TrimSpace(input.Group),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
