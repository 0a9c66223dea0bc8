package redis

import (
	"context"
	"errors"
	"fmt"
)

// ErrFetchConfig is the fixed error code returned to callers when the
// configuration snapshot cannot be obtained. Match it with errors.Is.
var ErrFetchConfig = errors.New("ERR failed to fetch config values")

// FetchError reports why a CONFIG GET could not produce a usable snapshot:
// the call failed, or the reply was not an even-length array.
type FetchError struct {
	Target string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	msg := ErrFetchConfig.Error()
	if e.Target != "" {
		msg += " from " + e.Target
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrFetchConfig) hold for every FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchConfig
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Snapshot is the raw, unordered CONFIG GET reply: alternating key and value
// elements. Elements are left undecoded; BuildIndex decides what is usable.
type Snapshot []any

// Len returns the number of key/value pairs in the snapshot.
func (s Snapshot) Len() int {
	return len(s) / 2
}

// FetchConfig issues exactly one CONFIG GET for keys and returns the reply.
// A failed call, a non-array reply, or an odd-length array yields a
// *FetchError; no partial snapshot is ever returned.
func FetchConfig(ctx context.Context, client ConfigClient, target string, keys []string) (Snapshot, error) {
	if len(keys) == 0 {
		return Snapshot{}, nil
	}

	reply, err := client.ConfigGet(ctx, keys)
	if err != nil {
		return nil, &FetchError{Target: target, Reason: "CONFIG GET failed", Err: err}
	}

	arr, ok := reply.([]any)
	if !ok {
		return nil, &FetchError{Target: target, Reason: fmt.Sprintf("unexpected reply type %T", reply)}
	}
	if len(arr)%2 != 0 {
		return nil, &FetchError{Target: target, Reason: fmt.Sprintf("odd-length reply (%d elements)", len(arr))}
	}
	return Snapshot(arr), nil
}
