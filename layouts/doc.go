// Package layouts stores named snapshots of an option group's value set and
// swaps the live values when a snapshot becomes active.
//
// Snapshots are base64 encoded JSON. Decode accepts plain maps, sequences and
// scalars only; blobs that carry typed-object markers are rejected with
// ErrRejectedPayload and decode to an empty value set.
package layouts
