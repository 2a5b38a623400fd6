package providers

import (
	"context"
	"errors"
)

// ErrUpstreamModel indicates the completion endpoint returned a
// non-success status. Fatal for the current invocation.
var ErrUpstreamModel = errors.New("upstream model request failed")

// ErrMalformedModelReply indicates the completion succeeded but the
// reply could not be decoded as JSON. Fatal for the current invocation.
var ErrMalformedModelReply = errors.New("malformed model reply")

// AdviceModelProvider defines a provider that completes an advisory
// prompt. The returned draft is the decoded JSON reply and is untrusted:
// it may be any JSON value and no shape is guaranteed until normalized.
type AdviceModelProvider interface {
	Complete(ctx context.Context, prompt string) (interface{}, error)
}
