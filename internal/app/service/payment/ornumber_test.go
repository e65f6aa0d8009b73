package payment

import (
	"context"
	"testing"

	"github.com/kalsada/citepay/pkg/config"

	"github.com/stretchr/testify/require"
)

func TestManualSourceRequiresTranscription(t *testing.T) {
	src := ManualSource{}

	got, err := src.Next(context.Background(), nil, "CGVM123456")
	require.NoError(t, err)
	require.Equal(t, "CGVM123456", got)

	_, err = src.Next(context.Background(), nil, "")
	require.Equal(t, KindInvalidFormat, KindOf(err))
}

func TestSequenceSourceAdvances(t *testing.T) {
	_, db := newTestService(t)
	src := SequenceSource{Prefix: "OR"}
	ctx := context.Background()

	first, err := src.Next(ctx, db, "")
	require.NoError(t, err)
	require.Equal(t, "OR00000001", first)

	second, err := src.Next(ctx, db, "ignored")
	require.NoError(t, err)
	require.Equal(t, "OR00000002", second)

	// Prefixes count independently.
	other, err := SequenceSource{Prefix: "CGVM"}.Next(ctx, db, "")
	require.NoError(t, err)
	require.Equal(t, "CGVM00000001", other)
}

func TestNewReceiptNumberSource(t *testing.T) {
	manual, err := NewReceiptNumberSource(&config.Config{Receipt: config.ReceiptConfig{Source: config.ReceiptSourceManual}})
	require.NoError(t, err)
	require.IsType(t, ManualSource{}, manual)

	seq, err := NewReceiptNumberSource(&config.Config{Receipt: config.ReceiptConfig{Source: config.ReceiptSourceSequence, SequencePrefix: "OR"}})
	require.NoError(t, err)
	require.Equal(t, SequenceSource{Prefix: "OR"}, seq)

	_, err = NewReceiptNumberSource(&config.Config{Receipt: config.ReceiptConfig{Source: "carrier-pigeon"}})
	require.Error(t, err)
}
