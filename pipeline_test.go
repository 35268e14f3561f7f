package restaurante_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dadosloja/restaurante"
	"github.com/dadosloja/restaurante/internal/logger"
)

type failingSource struct{ err error }

func (s failingSource) Name() string { return "failing" }

func (s failingSource) Load(context.Context) (*restaurante.Dataset, error) { return nil, s.err }

func TestRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithContext(t.Context(), zap.New(core))
	out := filepath.Join(t.TempDir(), "results")
	var stdout bytes.Buffer

	res, err := restaurante.Run(ctx, restaurante.CSVSource{Dir: "testdata/csv"}, restaurante.Options{
		OutputDir:   out,
		MetricsFile: "story.prom",
		Stdout:      &stdout,
	})
	require.NoError(t, err)

	assert.Equal(t, fixtureNarrative+"\n", stdout.String())
	assert.Equal(t, fixtureNarrative, res.Narrative)
	assert.Equal(t, "Refrigerante", res.Story.BestSeller.Name)
	assert.Equal(t, []string{
		filepath.Join(out, restaurante.MarkdownFile),
		filepath.Join(out, restaurante.QuantityChartFile),
		filepath.Join(out, restaurante.TicketChartFile),
		filepath.Join(out, "story.prom"),
	}, res.Files)
	for _, f := range res.Files {
		assert.FileExists(t, f)
	}

	assert.Equal(t, 1, logs.FilterMessage("tables loaded").Len())
	assert.Equal(t, 1, logs.FilterMessage("outputs written").Len())
}

func TestRun_OverwritesPreviousOutputs(t *testing.T) {
	out := t.TempDir()
	md := filepath.Join(out, restaurante.MarkdownFile)
	require.NoError(t, os.WriteFile(md, []byte("stale"), 0o600))

	_, err := restaurante.Run(t.Context(), restaurante.CSVSource{Dir: "testdata/csv"}, restaurante.Options{
		OutputDir: out,
		Stdout:    &bytes.Buffer{},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(md)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
	assert.NoFileExists(t, filepath.Join(out, "story.prom"))
}

func TestRun_Errors(t *testing.T) {
	t.Run("source failure", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := restaurante.Run(t.Context(), failingSource{err: boom}, restaurante.Options{
			OutputDir: t.TempDir(),
			Stdout:    &bytes.Buffer{},
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no completed sales", func(t *testing.T) {
		dir := copyFixture(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, restaurante.OrdersFile),
			[]byte("order_id,customer_id,status\n101,1,Cancelado\n"), 0o600))

		var stdout bytes.Buffer
		_, err := restaurante.Run(t.Context(), restaurante.CSVSource{Dir: dir}, restaurante.Options{
			OutputDir: t.TempDir(),
			Stdout:    &stdout,
		})
		assert.ErrorIs(t, err, restaurante.ErrNoSales)
		assert.Empty(t, stdout.String())
	})
}
