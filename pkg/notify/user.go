package notify

// User is the recipient of a notification as seen by this package.
type User interface {
	NotificationID() string
	// NotificationLocale returns the preferred locale or "" when unknown.
	NotificationLocale() string
	NotificationName() string
	// NotificationEmail returns the contact address or "" when the user has none.
	NotificationEmail() string
}

// Recipient is a serializable snapshot of a User. It also implements User, so
// a queued delivery can be handed back to code that expects one.
type Recipient struct {
	ID     string `json:"id"`
	Locale string `json:"locale,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

// RecipientOf snapshots u.
func RecipientOf(u User) Recipient {
	if r, ok := u.(Recipient); ok {
		return r
	}
	if r, ok := u.(*Recipient); ok && r != nil {
		return *r
	}
	return Recipient{
		ID:     u.NotificationID(),
		Locale: u.NotificationLocale(),
		Name:   u.NotificationName(),
		Email:  u.NotificationEmail(),
	}
}

func (r Recipient) NotificationID() string     { return r.ID }
func (r Recipient) NotificationLocale() string { return r.Locale }
func (r Recipient) NotificationName() string   { return r.Name }
func (r Recipient) NotificationEmail() string  { return r.Email }
