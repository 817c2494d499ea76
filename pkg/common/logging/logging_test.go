package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{" WARN ", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestComponentFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("debug", &buf)

	Component(l, "pubsub", "orders").Debug("loop started")

	out := buf.String()
	assert.Contains(t, out, "component=pubsub")
	assert.Contains(t, out, "name=orders")
	assert.Contains(t, out, "loop started")
}

func TestDiscard(t *testing.T) {
	require.NotNil(t, Discard())
	assert.Same(t, Discard(), OrDiscard(nil))

	l := New("info")
	assert.Same(t, logrus.FieldLogger(l), OrDiscard(l))
}
