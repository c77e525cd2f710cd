package notify

import "slices"

// Visibility is the set of channels a content item is hidden from. The zero
// value is visible everywhere. It is embedded by LineGroup and Action.
type Visibility struct {
	Hidden []ChannelID `json:"hidden_from,omitempty"`
}

// HideFrom hides the item from ch, or shows it again when hide is false.
// Repeated calls with the same arguments have no further effect.
func (v *Visibility) HideFrom(ch ChannelID, hide ...bool) {
	h := len(hide) == 0 || hide[0]
	i := slices.Index(v.Hidden, ch)
	switch {
	case h && i < 0:
		v.Hidden = append(v.Hidden, ch)
	case !h && i >= 0:
		v.Hidden = slices.Delete(v.Hidden, i, i+1)
	}
}

// IsHiddenFrom reports whether the item is hidden from ch.
func (v Visibility) IsHiddenFrom(ch ChannelID) bool {
	return slices.Contains(v.Hidden, ch)
}

// HiddenFrom returns the channels the item is hidden from.
func (v Visibility) HiddenFrom() []ChannelID {
	return slices.Clone(v.Hidden)
}
