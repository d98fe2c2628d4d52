package alogger

import "github.com/pkg/errors"

// Sentinel error kinds returned (wrapped) from the configuration binder.
// Producer-side emission and worker-side sink failures never surface an
// error to calling code at all — see DESIGN.md.
var (
	ErrConfig          = errors.New("alogger: invalid configuration")
	ErrFilterConstruct = errors.New("alogger: filter construction failed")
	ErrSaverConstruct  = errors.New("alogger: saver construction failed")
)
