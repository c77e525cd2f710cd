package notify

import "errors"

var (
	// ErrUnknownChannel is returned when a channel identifier is not registered in the catalog.
	ErrUnknownChannel = errors.New("notify: unknown channel")
	// ErrUnknownType is returned when a notification type is not registered in the catalog.
	ErrUnknownType = errors.New("notify: unknown notification type")
	// ErrMissingUserID is returned when an operation needs a user identifier and none was given.
	ErrMissingUserID = errors.New("notify: missing user id")
	// ErrDuplicatePreference is returned when a preference set holds the same type and channel twice.
	ErrDuplicatePreference = errors.New("notify: duplicate preference")
	// ErrNilNotification is returned when a nil notification or user is passed to the sender.
	ErrNilNotification = errors.New("notify: nil notification or user")
	// ErrNoHandler is returned when a channel has no handler attached.
	ErrNoHandler = errors.New("notify: channel has no handler")
	// ErrDispatchFailed is returned when a queued delivery cannot be handed to the dispatcher.
	ErrDispatchFailed = errors.New("notify: dispatch failed")
)
