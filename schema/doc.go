// Package schema holds the settings schema model: option groups made of
// pages, sections and typed settings, the ValueSet persisted for a group,
// and the helpers shared by validation, rendering and storage.
//
// Declarations load from YAML, JSON or TOML and are normalized before use;
// malformed entries are skipped and reported as SchemaError values rather
// than failing the whole group.
package schema
