package cache

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
)

const lockKeyPrefix = "meeting-lock:"

var errLockHeld = stdErrors.New("lock held")

func lockKey(meetingID string) string {
	return lockKeyPrefix + meetingID
}

// acquire retries try with exponential backoff until it succeeds, wait runs
// out, or ctx is done. try reports false while the lock is held elsewhere.
func acquire(ctx context.Context, meetingID string, wait time.Duration, try func() (bool, error)) error {
	if wait <= 0 {
		// A zero MaxElapsedTime would retry forever; make it a single attempt.
		wait = time.Nanosecond
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = wait

	err := backoff.Retry(func() error {
		ok, err := try()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errLockHeld
		}
		return nil
	}, backoff.WithContext(b, ctx))

	switch {
	case err == nil:
		return nil
	case stdErrors.Is(err, errLockHeld):
		return apperrors.ErrMeetingBusy(meetingID)
	case ctx.Err() != nil:
		return apperrors.ErrMeetingBusy(meetingID)
	default:
		return apperrors.ErrInternal(err)
	}
}

// NoopLocker never blocks. Concurrent aggregations of one meeting race and
// the last write wins.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
