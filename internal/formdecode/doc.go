// Package formdecode turns bracket-notation form submissions into nested
// value maps.
package formdecode
