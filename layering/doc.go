// Package layering composes value sets: stored values over declared
// defaults, and site values over network values.
package layering
