package tagcache

import (
	"errors"
	"fmt"
)

// ErrTaskAborted is returned by CachedTask when the task's channel is
// closed without delivering a result, i.e. the computation terminated
// without producing a value or an error.
var ErrTaskAborted = errors.New("tagcache: task ended without a result")

// EncodeError reports that an argument or a computed value could not be
// serialized by the cache's codec. What is "argument" or "value".
type EncodeError struct {
	What string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("tagcache: encode %s: %v", e.What, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError reports that stored bytes could not be deserialized into the
// requested result type. This usually means two call sites whose arguments
// encode identically but whose result types differ are sharing one cache;
// give each such family of call sites its own argument wrapper type (or
// its own cache) so their keys cannot collide.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tagcache: decode cached value: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
