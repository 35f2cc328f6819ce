package plugin

import "errors"

var (
	ErrUnknownVariant = errors.New("plugin: unknown variant")
	ErrUnknownHandle  = errors.New("plugin: unknown handle")
	ErrClosed         = errors.New("plugin: instance closed")
	ErrBadConfig      = errors.New("plugin: config must be a JSON object")
)
