package notify

import "strings"

// BlockKind distinguishes rendered text from calls to action.
type BlockKind string

const (
	BlockText   BlockKind = "text"
	BlockAction BlockKind = "action"
)

// Block is a channel-neutral piece of rendered content. Channels turn blocks
// into their own markup.
type Block struct {
	Kind      BlockKind `json:"kind"`
	Component Component `json:"component,omitempty"`
	Glue      bool      `json:"glue,omitempty"`
	Lines     []string  `json:"lines"`
	URL       string    `json:"url,omitempty"`
}

// Paragraphs returns the block as paragraphs: one joined paragraph for a
// glued text block, one per line otherwise.
func (b Block) Paragraphs() []string {
	if b.Kind == BlockText && b.Glue {
		return []string{strings.Join(b.Lines, "\n")}
	}
	return b.Lines
}

// Text returns the text of an action block or the joined lines of a text block.
func (b Block) Text() string {
	return strings.Join(b.Lines, "\n")
}

// PlainText renders blocks as plain text. Paragraphs are separated by a blank
// line; an action renders as its text followed by the URL.
func PlainText(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		if b.Kind == BlockAction {
			parts = append(parts, b.Text()+": "+b.URL)
			continue
		}
		parts = append(parts, b.Paragraphs()...)
	}
	return strings.Join(parts, "\n\n")
}

// Markdown renders blocks as markdown. Glued lines are joined with hard line
// breaks; an action renders as a link.
func Markdown(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		if b.Kind == BlockAction {
			parts = append(parts, "["+b.Text()+"]("+b.URL+")")
			continue
		}
		if b.Glue {
			parts = append(parts, strings.Join(b.Lines, "  \n"))
			continue
		}
		parts = append(parts, b.Lines...)
	}
	return strings.Join(parts, "\n\n")
}
