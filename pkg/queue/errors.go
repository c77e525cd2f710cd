package queue

import "errors"

var (
	ErrRepositoryNil   = errors.New("repository cannot be nil")
	ErrPayloadNil      = errors.New("payload cannot be nil")
	ErrTaskNil         = errors.New("task cannot be nil")
	ErrInvalidPriority = errors.New("priority must be between 0 and 100")
	ErrTaskExists      = errors.New("task already exists")
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskNotClaimed  = errors.New("task is not in processing state")
	ErrNoTaskToClaim   = errors.New("no task to claim")
	ErrHandlerNotFound = errors.New("no handler registered for task")
	ErrHandlerPanic    = errors.New("task handler panicked")
)
