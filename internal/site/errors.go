package site

import "errors"

// Sentinel domain errors used to classify high-level pipeline failures.
// They should always be wrapped with contextual information at the call site.
var (
	ErrScan       = errors.New("docwright: content scan error")
	ErrSidebars   = errors.New("docwright: sidebar load error")
	ErrNavigation = errors.New("docwright: navigation error")
	ErrLinks      = errors.New("docwright: link verification error")
	ErrEmit       = errors.New("docwright: model emission error")
	ErrHistory    = errors.New("docwright: history record error")
)
