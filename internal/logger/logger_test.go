package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug")

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("loan_id", "loan-1").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "loan-1", entry["loan_id"])
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	for _, lvl := range []string{"", "loud"} {
		l := NewWithWriter(&bytes.Buffer{}, lvl)
		assert.Equal(t, logrus.InfoLevel, l.GetLevel(), lvl)
	}
}

func TestNewWithWriter_TimestampKey(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "info").Info("tick")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotEmpty(t, entry["ts"])
	assert.NotContains(t, entry, "time")
}
