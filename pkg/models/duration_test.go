package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", input: `"8h"`, want: 8 * time.Hour},
		{name: "compound string", input: `"1h30m"`, want: 90 * time.Minute},
		{name: "numeric nanoseconds", input: `3600000000000`, want: time.Hour},
		{name: "garbage string", input: `"soon"`, wantErr: true},
		{name: "wrong type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDurationMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Threshold Duration `json:"threshold"`
	}

	out, err := json.Marshal(wrapper{Threshold: Duration(8 * time.Hour)})
	require.NoError(t, err)
	require.JSONEq(t, `{"threshold":"8h0m0s"}`, string(out))

	var back wrapper
	require.NoError(t, json.Unmarshal(out, &back))
	require.Equal(t, Duration(8*time.Hour), back.Threshold)
}

func TestDurationString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "8h0m0s", Duration(8*time.Hour).String())
}
