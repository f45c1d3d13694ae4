package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "12.50", FormatAmount(1250))
	assert.Equal(t, "-3.07", FormatAmount(-307))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12.5", want: 1250},
		{in: " 40 ", want: 4000},
		{in: "0.01", want: 1},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "1.005", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "92233720368547758.07", want: 9223372036854775807},
		{in: "92233720368547758.08", wantErr: true},
		{in: "184467440737095516.17", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
