package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "pending", input: "pending", want: StatusPending},
		{name: "processing", input: "processing", want: StatusProcessing},
		{name: "shipped", input: "shipped", want: StatusShipped},
		{name: "delivered", input: "delivered", want: StatusDelivered},
		{name: "cancelled", input: "cancelled", want: StatusCancelled},
		{name: "unknown value", input: "archived", wantErr: true},
		{name: "empty value", input: "", wantErr: true},
		{name: "case sensitive", input: "Pending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrDefault(t *testing.T) {
	assert.Equal(t, StatusShipped, ParseOrDefault("shipped"))
	assert.Equal(t, StatusPending, ParseOrDefault("bogus"))
	assert.Equal(t, StatusPending, ParseOrDefault(""))
}
