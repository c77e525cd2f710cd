package sanitizer

// MarkdownControlChars lists the characters that carry markup meaning in the
// markdown dialects used by notification channels.
const MarkdownControlChars = "*_#~`>"

// EscapeMarkdown neutralizes user-supplied values before they are interpolated
// into channel markup: control characters are dropped, every markdown control
// character is replaced with a space and the result is trimmed.
func EscapeMarkdown(s string) string {
	return Apply(s,
		RemoveControlChars,
		func(v string) string { return ReplaceChars(v, MarkdownControlChars, " ") },
		Trim,
	)
}
