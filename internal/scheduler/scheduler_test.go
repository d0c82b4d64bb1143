package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	n     int
	err   error
	calls int
}

func (f *fakeRefresher) RefreshActive(ctx context.Context) (int, error) {
	f.calls++
	return f.n, f.err
}

func TestNew_InvalidSpec(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := New("not a cron spec", &fakeRefresher{}, log)
	assert.Error(t, err)
}

func TestScheduler_Run(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := &fakeRefresher{n: 3}
	s, err := New("@every 1h", r, log)
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 1)

	s.run(r)

	assert.Equal(t, 1, r.calls)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, 3, hook.LastEntry().Data["loans"])
	assert.Equal(t, "scheduler", hook.LastEntry().Data["component"])
}

func TestScheduler_RunLogsFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := &fakeRefresher{err: errors.New("db down")}
	s, err := New("@hourly", r, log)
	require.NoError(t, err)

	s.run(r)

	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestScheduler_StartStop(t *testing.T) {
	log, _ := test.NewNullLogger()
	s, err := New("@hourly", &fakeRefresher{}, log)
	require.NoError(t, err)

	s.Start()
	s.Stop(context.Background())
}
