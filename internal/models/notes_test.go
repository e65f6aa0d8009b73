package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendNote(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)

	first := AppendNote("", NoteEntry{At: at, ActorID: 7, Text: "Payment voided: cashier error"})
	require.Equal(t, "[2026-08-31 14:30:00] user#7: Payment voided: cashier error", first)

	second := AppendNote(first, NoteEntry{At: at.Add(time.Minute), ActorID: 9, Text: "OR number changed from OR123456 to OR123457: reprint"})
	require.Equal(t, first+"\n[2026-08-31 14:31:00] user#9: OR number changed from OR123456 to OR123457: reprint", second)
}

func TestPaymentAppendNote(t *testing.T) {
	p := &Payment{}
	p.AppendNote(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), 7, "initial note")
	p.AppendNote(time.Date(2026, 8, 31, 9, 5, 0, 0, time.UTC), 7, "second note")
	require.Contains(t, p.Notes, "initial note")
	require.Contains(t, p.Notes, "second note")
	require.Contains(t, p.Notes, "user#7")
}
