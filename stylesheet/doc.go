// Package stylesheet maintains generated stylesheets made of named marker
// blocks:
//
//	/* BEGIN header_css */
//	.site-header { color: #336699; }
//	/* END header_css */
//
// Each css setting owns one block. Bodies may reference other settings with
// {{option_id}} or {{option_id|sub_key}} placeholders, which are resolved to
// CSS-ready values before the block is written. Files are read whole and
// rewritten with a single write, so a failed operation never leaves a
// partially written stylesheet.
package stylesheet
