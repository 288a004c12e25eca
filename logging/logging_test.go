package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.expected)
	}

	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLevelJSON(t *testing.T) {
	var cfg struct {
		Level *Level `json:"level"`
	}
	test.That(t, json.Unmarshal([]byte(`{"level": "error"}`), &cfg), test.ShouldBeNil)
	test.That(t, *cfg.Level, test.ShouldEqual, ERROR)

	test.That(t, json.Unmarshal([]byte(`{"level": "loud"}`), &cfg), test.ShouldNotBeNil)
	test.That(t, json.Unmarshal([]byte(`{"level": 3}`), &cfg), test.ShouldNotBeNil)
}

func TestObservedLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("reference closure", "translation", 0.4)
	logger.Infow("checked states", "count", 10)

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("checked states").Len(), test.ShouldEqual, 1)
	entry := logs.FilterMessage("reference closure").All()[0]
	test.That(t, entry.ContextMap()["translation"], test.ShouldEqual, 0.4)

	logger.SetLevel(WARN)
	logger.Infow("dropped")
	test.That(t, logs.Len(), test.ShouldEqual, 2)

	sub := logger.Sublogger("constraint")
	sub.Warnw("kept")
	test.That(t, logs.FilterMessage("kept").All()[0].LoggerName, test.ShouldEqual, "constraint")

	logger.Warnw("unpaired", "key")
	test.That(t, logs.FilterMessage("unpaired").All()[0].ContextMap(), test.ShouldContainKey, "key")
}

func TestWriterAppender(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBlankLogger("closedchain")
	logger.AddAppender(NewWriterAppender(zapcore.AddSync(&buf)))
	logger.Debugw("config read", "path", "robot.json")
	test.That(t, buf.String(), test.ShouldContainSubstring, "DEBUG")
	test.That(t, buf.String(), test.ShouldContainSubstring, "closedchain")
	test.That(t, buf.String(), test.ShouldContainSubstring, "config read")
	test.That(t, buf.String(), test.ShouldContainSubstring, "robot.json")

	buf.Reset()
	logger.SetLevel(INFO)
	logger.Sublogger("worker0").Debugw("hidden")
	test.That(t, buf.String(), test.ShouldBeEmpty)
	logger.Sublogger("worker0").Infow("shown")
	test.That(t, buf.String(), test.ShouldContainSubstring, "closedchain.worker0")
}
