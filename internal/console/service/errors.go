package service

import "errors"

var (
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrUnknownItem      = errors.New("unknown item")
	ErrNothingSelected  = errors.New("nothing selected")
	ErrActionInProgress = errors.New("action already in progress")
	ErrUnknownSnippet   = errors.New("unknown snippet")
)
