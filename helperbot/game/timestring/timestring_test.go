package timestring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    time.Duration
		wantErr bool
	}{
		{
			name: "english short units",
			text: "1d 23h 59m 58s",
			want: 47*time.Hour + 59*time.Minute + 58*time.Second,
		},
		{
			name: "hours minutes seconds",
			text: "23h 59m 58s",
			want: 23*time.Hour + 59*time.Minute + 58*time.Second,
		},
		{
			name: "spanish long units",
			text: "2 horas 5 minutos",
			want: 2*time.Hour + 5*time.Minute,
		},
		{
			name: "portuguese long units",
			text: "1 dia 3 segundos",
			want: 24*time.Hour + 3*time.Second,
		},
		{
			name: "mixed case with noise",
			text: "(**5M 30S**)",
			want: 5*time.Minute + 30*time.Second,
		},
		{
			name: "empty is zero",
			text: "",
			want: 0,
		},
		{
			name: "whitespace is zero",
			text: "   ",
			want: 0,
		},
		{
			name:    "no known unit",
			text:    "3 bananas",
			wantErr: true,
		},
		{
			name:    "plain words",
			text:    "soon",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedDuration)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, text := range []string{"0s", "58s", "59m 58s", "23h 59m 58s", "1d 0h 5m 0s", "6d 23h 0m 1s"} {
		d, err := Parse(text)
		require.NoError(t, err, text)

		back, err := Parse(Format(d))
		require.NoError(t, err, text)
		require.Equal(t, d, back, text)
	}
}

func TestTimeLeftAt(t *testing.T) {
	ref := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("subtracts elapsed time", func(t *testing.T) {
		got, err := TimeLeftAt("10m", ref, ref.Add(2*time.Minute))
		require.NoError(t, err)
		require.Equal(t, 8*time.Minute, got)
	})

	t.Run("clamps to zero", func(t *testing.T) {
		got, err := TimeLeftAt("10s", ref, ref.Add(time.Hour))
		require.NoError(t, err)
		require.Equal(t, time.Duration(0), got)
	})

	t.Run("expiry matches message time plus countdown", func(t *testing.T) {
		got, err := TimeLeftAt("23h 59m 58s", ref, ref)
		require.NoError(t, err)
		require.Equal(t, ref.Add(23*time.Hour+59*time.Minute+58*time.Second), ref.Add(got))
	})

	t.Run("propagates malformed input", func(t *testing.T) {
		_, err := TimeLeftAt("later", ref, ref)
		require.True(t, errors.Is(err, ErrMalformedDuration))
	})
}
