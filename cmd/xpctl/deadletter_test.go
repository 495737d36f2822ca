package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/XPEngine_Go/internal/event"
)

func writeDeadLetterFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	w, err := event.NewDeadLetterWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(event.NewXPAwardedEvent("alice", "lesson_completed", 10, 10), 5, errors.New("bus closed")))
	require.NoError(t, w.Write(event.NewLevelUpEvent("alice", 1, 2, 12, false, "lesson_completed"), 5, errors.New("bus closed")))
	require.NoError(t, w.Close())
	return path
}

func TestDeadLetterCmd_Table(t *testing.T) {
	path := writeDeadLetterFile(t)

	out, err := execute(t, "deadletter", path)
	require.NoError(t, err)
	assert.Regexp(t, `TIME\s+TYPE\s+ATTEMPTS\s+ERROR`, out)
	assert.Regexp(t, `xp\.awarded\s+5\s+bus closed`, out)
	assert.Regexp(t, `level\.up\s+5\s+bus closed`, out)
	assert.Contains(t, out, "2 undelivered")
}

func TestDeadLetterCmd_TypeFilterJSON(t *testing.T) {
	path := writeDeadLetterFile(t)

	out, err := execute(t, "deadletter", path, "--type", "level.up", "--json")
	require.NoError(t, err)

	var entries []event.DeadLetterEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, event.LevelUp, entries[0].Event.Type)

	out, err = execute(t, "deadletter", path, "--type", "level.milestone", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestDeadLetterCmd_PathFromEnvironment(t *testing.T) {
	t.Setenv("DEAD_LETTER_PATH", writeDeadLetterFile(t))

	out, err := execute(t, "deadletter")
	require.NoError(t, err)
	assert.Contains(t, out, "2 undelivered")
}

func TestDeadLetterCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "deadletter", filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}
