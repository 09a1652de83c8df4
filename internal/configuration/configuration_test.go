package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConfigProvider is a fake implementation of genericConfigProvider.
type fakeConfigProvider struct {
	envMap map[string]string
	err    error
}

func (f *fakeConfigProvider) Read(_ ...string) (map[string]string, error) {
	return f.envMap, f.err
}

// TestMapKeyHelpers_Table verifies the typed map accessors.
func TestMapKeyHelpers_Table(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeConfigProvider{})

	envMap := map[string]string{
		"str":   "value",
		"int":   "42",
		"big":   "9000000000",
		"junk":  "not-a-number",
		"empty": "",
	}

	assert.Equal(t, "value", handler.MapKeyToString(envMap, "str"))
	assert.Empty(t, handler.MapKeyToString(envMap, "absent"))

	assert.Equal(t, 42, handler.MapKeyToInt(envMap, "int"))
	assert.Equal(t, -1, handler.MapKeyToInt(envMap, "junk"))
	assert.Equal(t, -1, handler.MapKeyToInt(envMap, "empty"))
	assert.Equal(t, -1, handler.MapKeyToInt(envMap, "absent"))

	assert.Equal(t, int64(9000000000), handler.MapKeyToInt64(envMap, "big"))
	assert.Equal(t, int64(-1), handler.MapKeyToInt64(envMap, "junk"))
}

// TestLoadSettings_Defaults verifies that an unreadable configuration file
// yields the defaults.
func TestLoadSettings_Defaults(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeConfigProvider{err: assert.AnError})

	settings := handler.LoadSettings("/nonexistent/blockd.conf")
	require.NotNil(t, settings)

	assert.Equal(t, DefaultSettings(), settings)
}

// TestLoadSettings_Applied verifies that configured values are applied over
// the defaults, with unparseable values ignored.
func TestLoadSettings_Applied(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeConfigProvider{envMap: map[string]string{
		SettingVolumeMountBase: "/srv/volumes",
		SettingMountSettleMS:   "250",
		SettingFormatSettleMS:  "garbage",
		SettingWatchSchedule:   "@every 5m",
	}})

	settings := handler.LoadSettings("/etc/blockd/blockd.conf")

	assert.Equal(t, "/srv/volumes", settings.VolumeMountBase)
	assert.Equal(t, DefaultSettings().DiskMountBase, settings.DiskMountBase)
	assert.Equal(t, 250*time.Millisecond, settings.MountSettle)
	assert.Equal(t, DefaultSettings().FormatSettle, settings.FormatSettle, "unparseable value keeps the default")
	assert.Equal(t, "@every 5m", settings.WatchSchedule)
}

// TestLoadSettings_ZeroSettle verifies that settle delays can be disabled.
func TestLoadSettings_ZeroSettle(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeConfigProvider{envMap: map[string]string{
		SettingMountSettleMS:  "0",
		SettingFormatSettleMS: "0",
	}})

	settings := handler.LoadSettings("/etc/blockd/blockd.conf")

	assert.Equal(t, time.Duration(0), settings.MountSettle)
	assert.Equal(t, time.Duration(0), settings.FormatSettle)
}
