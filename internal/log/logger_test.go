package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_WritesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentStorage, Output: &buf})

	logger.Info("loaded document", FieldPath, "/tmp/tally.json")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "component=storage")
	assert.Contains(t, out, "path=/tmp/tally.json")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("component=")))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	app := New(Config{Level: slog.LevelDebug, Output: &buf})
	git := app.WithComponent(ComponentGit)

	git.Warn("commit failed", FieldError, errors.New("no repo"))

	assert.Equal(t, ComponentGit, git.Component())
	assert.Equal(t, ComponentApp, app.Component())
	assert.Contains(t, buf.String(), "component=git")
	assert.NotContains(t, buf.String(), "component=app")
	assert.Contains(t, buf.String(), `error="no repo"`)
}

func TestWith_KeepsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Component: ComponentLedger}).With(FieldTxnID, "abc")
	logger.Info("added")

	assert.Equal(t, ComponentLedger, logger.Component())
	assert.Contains(t, buf.String(), "transaction_id=abc")
	assert.Contains(t, buf.String(), "component=ledger")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}

func TestWithComponent_SingleComponentKey(t *testing.T) {
	var buf bytes.Buffer
	storage := New(Config{Output: &buf}).With(FieldPath, "/tmp/tally.json").WithComponent(ComponentStorage)

	storage.Info("saved")

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("component=")))
	assert.Contains(t, buf.String(), "component=storage")
	assert.NotContains(t, buf.String(), "path=")
}
