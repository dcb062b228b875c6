package xsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJsonColumn_Value(t *testing.T) {
	t.Parallel()

	t.Run("valid value marshals to json", func(t *testing.T) {
		t.Parallel()

		col := JsonColumn[testPayload]{Val: testPayload{Name: "foo", Count: 2}, Valid: true}

		val, err := col.Value()
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"foo","count":2}`, val.(string))
	})

	t.Run("invalid value stores null", func(t *testing.T) {
		t.Parallel()

		col := JsonColumn[testPayload]{}

		val, err := col.Value()
		require.NoError(t, err)
		assert.Nil(t, val)
	})
}

func TestJsonColumn_Scan(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name      string
		src       any
		wantValid bool
		wantVal   testPayload
		wantErr   bool
	}{
		{
			name:      "bytes",
			src:       []byte(`{"name":"foo","count":2}`),
			wantValid: true,
			wantVal:   testPayload{Name: "foo", Count: 2},
		},
		{
			name:      "string",
			src:       `{"name":"bar","count":1}`,
			wantValid: true,
			wantVal:   testPayload{Name: "bar", Count: 1},
		},
		{
			name: "null keeps zero value",
			src:  nil,
		},
		{
			name: "empty bytes keep zero value",
			src:  []byte{},
		},
		{
			name:    "unsupported type",
			src:     42,
			wantErr: true,
		},
		{
			name:    "malformed json",
			src:     []byte(`{`),
			wantErr: true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var col JsonColumn[testPayload]
			err := col.Scan(tc.src)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantValid, col.Valid)
			assert.Equal(t, tc.wantVal, col.Val)
		})
	}
}
