package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name     string
	err      error
	duration time.Duration
	calls    int
}

func (r *recorder) OnCommandComplete(name string, err error, duration time.Duration) {
	r.name, r.err, r.duration = name, err, duration
	r.calls++
}

func TestRun(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := map[string]struct {
		err error
	}{
		"success": {},
		"failure": {err: boom},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			err := Run(rec, "check", func() error {
				time.Sleep(time.Millisecond)
				return tt.err
			})

			assert.Equal(t, tt.err, err)
			assert.Equal(t, 1, rec.calls)
			assert.Equal(t, "check", rec.name)
			assert.Equal(t, tt.err, rec.err)
			assert.GreaterOrEqual(t, rec.duration, time.Millisecond)
		})
	}
}

func TestRun_NilHandler(t *testing.T) {
	t.Parallel()

	called := false
	err := Run(nil, "week", func() error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestMulti(t *testing.T) {
	t.Parallel()

	first, second := &recorder{}, &recorder{}
	err := Run(Multi(first, nil, second), "push", func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, "push", second.name)
}
