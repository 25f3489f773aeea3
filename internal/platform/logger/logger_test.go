package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_JSONFormatWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "JSON", Output: &buf})

	log.WithField("colony", "W1N1").Debug("classified")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a json line, got %q: %v", buf.String(), err)
	}
	if line["colony"] != "W1N1" || line["msg"] != "classified" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	log := New(Options{Level: "loud", Output: &bytes.Buffer{}})
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter, got %T", log.Formatter)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
