package logging

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	testCases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"ERROR":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"panic":   logrus.PanicLevel,
		" info ":  logrus.InfoLevel,
		"trace":   logrus.TraceLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"":        logrus.TraceLevel,
		"loud":    logrus.TraceLevel,
	}
	for level, want := range testCases {
		assert.Equal(t, want, GetLevel(level), level)
	}
}

func TestSetup_FileOutput(t *testing.T) {
	origOut := logrus.StandardLogger().Out
	origLevel := logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(origOut)
		logrus.SetLevel(origLevel)
	})

	logPath := filepath.Join(t.TempDir(), "service")
	Setup(LoggerSetupParams{
		LogFileName: logPath,
		LogLevel:    "warn",
	})
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	logrus.Info("not written")
	logrus.Warn("big3 refresh superseded")

	content, err := os.ReadFile(logPath + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(content), "big3 refresh superseded")
	assert.NotContains(t, string(content), "not written")
}

func TestSentryHook_Fire(t *testing.T) {
	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)
	hook := newSentryHookWithHub(sentry.NewHub(client, sentry.NewScope()), []logrus.Level{logrus.ErrorLevel})
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	logger := logrus.New()
	logger.SetOutput(&discard{})
	logger.AddHook(hook)

	logger.WithError(errors.New("502 Bad Gateway")).WithField("route", "/big3/summary").Error("big3 refresh failed")
	logger.Warn("ignored by the hook")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, "big3 refresh failed", events[0].Message)
	assert.Equal(t, sentry.LevelError, events[0].Level)
	assert.Equal(t, "502 Bad Gateway", events[0].Extra[logrus.ErrorKey])
	assert.Equal(t, "/big3/summary", events[0].Extra["route"])
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.FatalLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(logrus.InfoLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) {
	return len(p), nil
}
