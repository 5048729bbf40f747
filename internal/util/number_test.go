package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{name: "plain", input: "12.5", want: "12.5", valid: true},
		{name: "currency", input: "$ 19.99", want: "19.99", valid: true},
		{name: "grouping", input: "$1,234.50", want: "1234.5", valid: true},
		{name: "negative", input: "-3", want: "-3", valid: true},
		{name: "blank", input: "  ", valid: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDecimal(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.valid, got.Valid)
			if tc.valid {
				assert.Equal(t, tc.want, got.Decimal.String())
			}
		})
	}
}

func TestParseDecimalRejectsText(t *testing.T) {
	_, err := ParseDecimal("call for price")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call for price")
}

func TestParseInt(t *testing.T) {
	v, err := ParseInt("1,200")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 1200, *v)

	v, err = ParseInt("")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ParseInt("2.5")
	require.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 4412 ")
	require.NoError(t, err)
	assert.Equal(t, int64(4412), id)

	id, err = ParseID("")
	require.NoError(t, err)
	assert.Zero(t, id)

	id, err = ParseID("12,345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)

	_, err = ParseID("abc")
	require.Error(t, err)

	_, err = ParseID("12,34")
	require.Error(t, err)
}
