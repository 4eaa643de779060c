package platform

import (
	"os"
	"runtime"
	"testing"

	hook "github.com/robotn/gohook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/idle-nudge/internal/display"
	"github.com/stigoleg/idle-nudge/internal/input"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"auto", "robotgo", "x11"}, Names())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultBackend},
		{"auto", DefaultBackend},
		{" AUTO ", DefaultBackend},
		{"X11", BackendX11},
		{"robotgo", BackendRobotgo},
		{"wayland", "wayland"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(""))
	assert.True(t, Valid("x11"))
	assert.False(t, Valid("wayland"))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("wayland")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Contains(t, err.Error(), "robotgo")
}

func TestHookKind(t *testing.T) {
	tests := []struct {
		kind uint8
		want input.Kind
	}{
		{hook.KeyDown, input.KindKeyDown},
		{hook.KeyHold, input.KindKeyHold},
		{hook.KeyUp, input.KindKeyUp},
		{hook.MouseMove, input.KindMouseMove},
		{hook.MouseDrag, input.KindMouseDrag},
		{hook.MouseDown, input.KindMouseDown},
		{hook.MouseHold, input.KindMouseHold},
		{hook.MouseUp, input.KindMouseUp},
		{hook.MouseWheel, input.KindMouseWheel},
		{hook.HookEnabled, input.KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, hookKind(tt.kind))
		})
	}
}

func TestHookSourceStopWithoutStart(t *testing.T) {
	s := newHookSource()
	assert.NotPanics(t, func() {
		s.Stop()
		s.Stop()
	})
}

func TestX11Desktop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping X11 test in short mode")
	}
	if runtime.GOOS != "linux" || os.Getenv("DISPLAY") == "" {
		t.Skip("skipping X11 test without a display")
	}

	desktop, closeDesktop, err := openX11()
	require.NoError(t, err)
	defer closeDesktop()

	width, err := display.PrimaryWidth(desktop)
	require.NoError(t, err)
	assert.Greater(t, width, 0)

	origin, err := desktop.Location()
	require.NoError(t, err)
	require.NoError(t, desktop.MoveTo(origin))
}
