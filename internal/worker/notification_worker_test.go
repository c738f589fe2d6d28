package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSubscriber struct{ registered int }

func (f *fakeSubscriber) RegisterHandlers() { f.registered++ }

func TestStartNotificationWorker(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sub := &fakeSubscriber{}

	StartNotificationWorker(sub, zap.New(core))
	assert.Equal(t, 1, sub.registered)
	assert.Equal(t, 1, logs.FilterMessage("notification handlers registered").Len())

	StartNotificationWorker(nil, nil)
}
