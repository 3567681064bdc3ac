package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDuration(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		minutes int
		ok      bool
	}{
		{name: "plain number", input: "45", minutes: 45, ok: true},
		{name: "decimal number rounds", input: "45.6", minutes: 46, ok: true},
		{name: "colon hours minutes", input: "1:30", minutes: 90, ok: true},
		{name: "colon with seconds rounds", input: "1:30:45", minutes: 91, ok: true},
		{name: "colon seconds round down", input: "0:10:20", minutes: 10, ok: true},
		{name: "minutes word", input: "45 min", minutes: 45, ok: true},
		{name: "hour and minute words", input: "2h 15m", minutes: 135, ok: true},
		{name: "long unit words", input: "1 hour 5 minutes", minutes: 65, ok: true},
		{name: "iso residual", input: "T1H30M", minutes: 90, ok: true},
		{name: "iso residual no t", input: "1H30M", minutes: 90, ok: true},
		{name: "iso hours only", input: "T2H", minutes: 120, ok: true},
		{name: "iso minutes only", input: "T45M", minutes: 45, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "soon", ok: false},
		{name: "whitespace only", input: "   ", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			minutes, ok := NormalizeDuration(tc.input)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, tc.minutes, minutes)
			}
		})
	}
}
