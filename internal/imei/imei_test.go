package imei

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := Generate()
		require.NoError(t, err)
		require.Len(t, id, Length)
		require.True(t, Valid(id), "generated id %q must pass the checksum", id)
	}
}

func TestGenerateBatchDistinct(t *testing.T) {
	ids, err := GenerateBatch(50)
	require.NoError(t, err)
	require.Len(t, ids, 50)

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		require.Len(t, id, Length)
		require.True(t, Valid(id))
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}

func TestGenerateBatchRejectsNonPositive(t *testing.T) {
	_, err := GenerateBatch(0)
	require.ErrorIs(t, err, ErrBatchSize)
	_, err = GenerateBatch(-3)
	require.ErrorIs(t, err, ErrBatchSize)
}

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"490154203237518", true},  // known Luhn-valid IMEI
		{"490154203237519", false}, // wrong check digit
		{"49015420323751", false},  // too short
		{"49015420323751a", false}, // non-numeric
		{"", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Valid(tc.in), "Valid(%q)", tc.in)
	}
}
