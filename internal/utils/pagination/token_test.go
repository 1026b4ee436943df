package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	voucherDate := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 4, 12, 10, 30, 15, 123456789, time.UTC)

	token := EncodeToken(voucherDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreated, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, voucherDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := DecodeToken("not-base64!!!")
	assert.Error(t, err)

	_, _, err = DecodeToken("aGVsbG8=") // "hello", no separator
	assert.Error(t, err)
}

func TestEncodeDecodeEntryToken(t *testing.T) {
	transactionDate := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)

	token := EncodeEntryToken(transactionDate, 42)
	gotDate, seq, err := DecodeEntryToken(token)
	require.NoError(t, err)
	assert.True(t, transactionDate.Equal(gotDate))
	assert.Equal(t, int64(42), seq)
}

func TestDecodeEntryToken_Invalid(t *testing.T) {
	_, _, err := DecodeEntryToken("%%%")
	assert.Error(t, err)

	_, _, err = DecodeEntryToken("aGVsbG8=") // "hello", no separator
	assert.Error(t, err)
}
