package domain

import "errors"

// ErrOriginUndefined is returned by ParseName when the text is a
// relative name and no origin was supplied to anchor it.
var ErrOriginUndefined = errors.New("relative domain name with no origin")
