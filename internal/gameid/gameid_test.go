package gameid

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	id := Generate()
	require.Len(t, id, Length)
	require.NoError(t, Validate(id))

	other := Generate()
	assert.NotEqual(t, id, other)
}

func TestGenerateIsVersion7(t *testing.T) {
	t.Parallel()
	decoded, err := Decode(Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), decoded.Version())
	assert.Equal(t, uuid.RFC4122, decoded.Variant())
}

func TestGeneratorWithEntropy(t *testing.T) {
	t.Parallel()
	g := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	id := g.Generate()
	require.NoError(t, Validate(id))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	for _, id := range []uuid.UUID{
		{},
		maxUUID(),
		uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057"),
	} {
		encoded := Encode(id)
		require.Len(t, encoded, Length)
		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestEncodeKnownValues(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "00000000000000000000000000", Encode(uuid.UUID{}))
	assert.Equal(t, "7zzzzzzzzzzzzzzzzzzzzzzzzz", Encode(maxUUID()))
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		id      string
		wantErr string
	}{
		{name: "valid", id: "01h455vb4pex5vsknk084sn02q"},
		{name: "too short", id: "01h455vb4pex5vsknk084sn02", wantErr: "exactly 26"},
		{name: "first char too large", id: "81h455vb4pex5vsknk084sn02q", wantErr: "first character"},
		{name: "invalid character", id: "01h455vb4pex5vsknk084sn0iq", wantErr: "invalid character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func maxUUID() uuid.UUID {
	var id uuid.UUID
	for i := range id {
		id[i] = 0xff
	}
	return id
}
