// Package cloud holds provider-neutral helpers shared by the AWS and Spotinst wrappers:
// tag and filter conversions, small collection utilities and the errors they return.
package cloud

import (
	"errors"
	"fmt"
)

// Tag is a single key/value resource tag, independent of any SDK's tag type.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// Filter narrows a describe call to resources whose Name attribute matches any of Values.
type Filter struct {
	Name   string
	Values []string
}

var (
	// ErrS3Writing is returned when fewer bytes reached S3 than were sent.
	ErrS3Writing = errors.New("object is not written correctly to S3")

	// ErrUnknownTagFormat is returned when tag key or value fields cannot be identified.
	ErrUnknownTagFormat = errors.New("unable to identify tag key names")

	// ErrMalformedTag is returned for "key:value" strings without a separator.
	ErrMalformedTag = errors.New("malformed key:value tag")
)

// CatchAllError carries every failure recovered by CatchAll, panics included.
type CatchAllError struct {
	Operation string
	Err       error
}

func (e *CatchAllError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *CatchAllError) Unwrap() error {
	return e.Err
}
