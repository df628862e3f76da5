// Package googlefonts keeps the Google Fonts catalogue and the families each
// google-fonts setting selected.
//
// The catalogue comes from the Web Fonts API and is cached in a state store
// for a TTL. Selections are recorded per setting id when a group is saved and
// pruned when the setting disappears from the saved values. Both feed the
// typography font stack and the stylesheet URL a theme enqueues.
package googlefonts
