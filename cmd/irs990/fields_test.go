package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/irs990"
	main "github.com/fwojciec/irs990/cmd/irs990"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists every registry field with kind and paths", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Registry: irs990.DefaultRegistry(),
		}

		cmd := &main.FieldsCmd{}
		err := cmd.Run(deps)

		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "business_name")
		assert.Contains(t, output, "ein")
		assert.Contains(t, output, "gross_receipts")
		assert.Contains(t, output, "string")
		assert.Contains(t, output, "int")

		lines := strings.Split(strings.TrimSpace(output), "\n")
		assert.Len(t, lines, len(irs990.DefaultRegistry().Selectors()))
	})
}
