package client

import (
	"errors"

	"github.com/dmitrijs2005/mylibrary/internal/common"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New(common.SignInFailedMessage)
	ErrNotSignedIn    = errors.New("not signed in")
	ErrSessionExpired = errors.New("session expired, please log in again")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
)
