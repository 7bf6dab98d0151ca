package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUtils_Sum(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(5, Sum(2, 3))
	assert.Equal(-1, Sum(2, -3))
	assert.Equal(0, Sum(0, 0))
	assert.InDelta(0.3, Sum(0.1, 0.2), 1e-9)
	assert.InDelta(-2.5, Sum(-1.25, -1.25), 1e-9)
	assert.Equal(int64(1<<40), Sum(int64(1<<39), int64(1<<39)))
}

func TestUtils_MinMax(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 3))
	assert.Equal(2, Min(3, 2))
	assert.Equal(3, Max(2, 3))
	assert.Equal(3, Max(3, 2))
	assert.Equal(-3.5, Min(-3.5, -1.0))
	assert.Equal(-1.0, Max(-3.5, -1.0))
}

func TestUtils_Abs(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(4, Abs(-4))
	assert.Equal(4, Abs(4))
	assert.Equal(0.5, Abs(-0.5))
}

func TestUtils_Clamp(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, Clamp(-0.3, 0.0, 1.0))
	assert.Equal(1.0, Clamp(1.7, 0.0, 1.0))
	assert.Equal(0.4, Clamp(0.4, 0.0, 1.0))
}

func TestUtils_Contains(t *testing.T) {
	assert := assert.New(t)

	coll := []string{"clear", "copy", "xor"}
	assert.True(Contains(coll, "copy"))
	assert.False(Contains(coll, "src_over"))
	assert.False(Contains([]int(nil), 1))
}

func TestUtils_DecorateText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(SuccessColor+"done"+DefaultColor, DecorateText("done", SuccessMessage))
	assert.Equal(ErrorColor+"failed"+DefaultColor, DecorateText("failed", ErrorMessage))
	assert.Equal("plain", DecorateText("plain", MessageType(42)))
}

func TestUtils_FormatTime(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal("2m 5.00s", FormatTime(125*time.Second))
	assert.Equal("1h 1m 1.00s", FormatTime(time.Hour+time.Minute+time.Second))
}

func TestUtils_FormatBytes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("512B", FormatBytes(512))
	assert.Equal("1.0KB", FormatBytes(1024))
	assert.Equal("1.5MB", FormatBytes(1536*1024))
}
