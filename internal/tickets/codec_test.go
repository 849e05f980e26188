package tickets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFacts() Facts {
	return Facts{
		BookingNumber: "TBK-ABC123-4F2A1B",
		UserName:      "Devotee User",
		UserPhone:     "+91 9876543212",
		TempleName:    "Shri Siddhivinayak Temple",
		VisitDate:     "2026-09-15T00:00:00Z",
		TimeSlot:      "06:00 - 08:00",
		TicketCount:   4,
		TotalAmount:   200,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	facts := testFacts()
	token, err := codec.Encode(facts)
	require.NoError(t, err)

	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], ivSize*2)
	assert.Len(t, parts[1], tagSize*2)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, facts.BookingNumber, decoded.BookingNumber)
	assert.Equal(t, facts.UserName, decoded.UserName)
	assert.Equal(t, facts.UserPhone, decoded.UserPhone)
	assert.Equal(t, facts.TempleName, decoded.TempleName)
	assert.Equal(t, facts.VisitDate, decoded.VisitDate)
	assert.Equal(t, facts.TimeSlot, decoded.TimeSlot)
	assert.Equal(t, facts.TicketCount, decoded.TicketCount)
	assert.Equal(t, facts.TotalAmount, decoded.TotalAmount)
	assert.NotEmpty(t, decoded.IssuedAt)
}

func TestEncodeIsNonDeterministic(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	first, err := codec.Encode(testFacts())
	require.NoError(t, err)
	second, err := codec.Encode(testFacts())
	require.NoError(t, err)

	// Fresh IV per call: identical facts must not correlate.
	assert.NotEqual(t, first, second)
}

func TestDecodeRejectsSingleCharacterTampering(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	token, err := codec.Encode(testFacts())
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'f' {
			mutated[i] = '0'
		} else {
			mutated[i] = 'f'
		}
		if string(mutated) == token {
			continue
		}
		_, err := codec.Decode(string(mutated))
		assert.ErrorIs(t, err, ErrInvalidTicket, "flip at position %d must fail authentication", i)
	}
}

func TestDecodeRejectsWrongKey(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)
	other, err := NewCodec("a-different-secret")
	require.NoError(t, err)

	token, err := codec.Encode(testFacts())
	require.NoError(t, err)

	_, err = other.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidTicket)
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	cases := []string{
		"",
		"not-a-token",
		"aa:bb",
		"aa:bb:cc:dd",
		"zz:bb:cc",
		"aabb:ccdd:eeff", // iv too short
		strings.Repeat("a", 32) + ":" + strings.Repeat("b", 32) + ":xyz",
	}
	for _, tc := range cases {
		_, err := codec.Decode(tc)
		assert.ErrorIs(t, err, ErrInvalidTicket, "token %q", tc)
	}
}

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	_, err := NewCodec("")
	assert.Error(t, err)
}

func TestImageRendersPNG(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	token, err := codec.Encode(testFacts())
	require.NoError(t, err)

	png, err := Image(token)
	require.NoError(t, err)
	require.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])

	dataURL, err := ImageDataURL(token)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
}
