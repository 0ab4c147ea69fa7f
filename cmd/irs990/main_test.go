package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/irs990"
	main "github.com/fwojciec/irs990/cmd/irs990"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMain returns a Main wired to throwaway database and cache paths.
func testMain(t *testing.T) *main.Main {
	t.Helper()
	dir := t.TempDir()
	m := main.NewMain()
	m.DBPath = filepath.Join(dir, "test.db")
	m.CacheDir = filepath.Join(dir, "cache")
	return m
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error when no command is given", func(t *testing.T) {
		t.Parallel()

		m := testMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{}, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		// Help is still printed so the user sees the available commands
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("returns parse error for an unknown command", func(t *testing.T) {
		t.Parallel()

		m := testMain(t)

		err := m.Run(context.Background(), []string{"bogus"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})

	t.Run("fields command lists the registry end to end", func(t *testing.T) {
		t.Parallel()

		m := testMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"fields"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "business_name")
		assert.Contains(t, stdout.String(), "ein")
	})

	t.Run("regions command lists the built-in codes end to end", func(t *testing.T) {
		t.Parallel()

		m := testMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"regions"}, stdout, stderr)

		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		assert.Len(t, lines, len(irs990.Regions()))
	})

	t.Run("saved list reports an empty database end to end", func(t *testing.T) {
		t.Parallel()

		m := testMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"saved", "list"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No saved filings")
	})

	t.Run("saved delete reports a missing filing end to end", func(t *testing.T) {
		t.Parallel()

		m := testMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"saved", "delete", "no-such-id", "--force"}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, irs990.ENOTFOUND, irs990.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("returns error for an unopenable database path", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "missing", "nested", "test.db")
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"fields"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open database")
		assert.Contains(t, stderr.String(), "IRS990_DB")
	})
}

// t.Setenv cannot run under a parallel parent, so this is its own test.
func TestMain_Run_AskRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	m := testMain(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"ask", "anything"}, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, stderr.String(), "aistudio.google.com")
}
