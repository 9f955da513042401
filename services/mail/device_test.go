package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDevice(t *testing.T) {
	t.Run("empty user agent", func(t *testing.T) {
		info := ParseDevice("")

		assert.Equal(t, "Unknown Browser", info.Browser)
		assert.Equal(t, "Unknown OS", info.OS)
		assert.Equal(t, "Unknown Device", info.Device)
		assert.Equal(t, "Unknown", info.DeviceType)
	})

	t.Run("desktop chrome", func(t *testing.T) {
		info := ParseDevice("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		assert.Contains(t, info.Browser, "Chrome")
		assert.Contains(t, info.OS, "Windows")
		assert.Equal(t, "Desktop", info.DeviceType)
		assert.Equal(t, "Desktop Computer", info.Device)
	})

	t.Run("iphone safari", func(t *testing.T) {
		info := ParseDevice("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")

		assert.Contains(t, info.Browser, "Safari")
		assert.Contains(t, info.OS, "iOS")
		assert.Equal(t, "Mobile", info.DeviceType)
		assert.Equal(t, "iPhone", info.Device)
	})
}
