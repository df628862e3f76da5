// Package condition implements the field visibility language used by
// settings: a comma separated list of field:verb(value) clauses combined
// with a single and/or operator.
//
//	show_footer:is(on),footer_columns:greater_than(1)
//
// Verbs are is, not, contains, less_than, less_than_or_equal_to,
// greater_than and greater_than_or_equal_to. Clauses naming fields that are
// not on the form are skipped. Scheduler debounces re-evaluation for typed
// input and guards against stale runs with a generation counter.
package condition
