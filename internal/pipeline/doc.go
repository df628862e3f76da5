// Package pipeline composes a pre-hook, rule, post-hook chain. Each stage is
// a plain function; hooks decide with a Verdict whether to pass, replace or
// veto the value.
package pipeline
