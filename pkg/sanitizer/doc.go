// Package sanitizer provides small, composable helpers for cleaning text that
// ends up inside notification content.
//
// The helpers fall into three groups:
//
//   - Strings: trimming, truncation, whitespace and control character cleanup.
//   - Markdown: EscapeMarkdown replaces markdown control characters with spaces
//     so an interpolated value cannot change the markup of a message.
//   - Collections: order-preserving deduplication.
//
// Apply and Compose build pipelines out of individual helpers:
//
//	clean := sanitizer.Compose(
//	    sanitizer.Trim,
//	    sanitizer.SingleLine,
//	)
//
//	subject := clean("  Your order\nhas shipped ") // "Your order has shipped"
//
// # Error handling
//
// None of the helpers returns an error; they always fall back to a safe result.
// There is no global state, so the helpers are safe for concurrent use.
package sanitizer
