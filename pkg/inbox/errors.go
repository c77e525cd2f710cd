package inbox

import "errors"

var (
	ErrNotificationNotFound = errors.New("inbox: notification not found")
	ErrMissingID            = errors.New("inbox: notification id is required")
	ErrMissingUserID        = errors.New("inbox: user id is required")
)
