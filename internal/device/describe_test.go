package device

import (
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
)

func TestDescribe(t *testing.T) {
	at := time.Date(2023, 3, 31, 15, 30, 0, 0, time.UTC)

	plug := mustNew(t, KindPlug, "Kettle", Options{})
	plug.Plug.ConsumedEnergy = 2200

	lamp := mustNew(t, KindLamp, "Desk", Options{Status: ptr(StatusOn)})
	lamp.SwitchTime = &at

	color := mustNew(t, KindColorLamp, "Strip", Options{Kelvin: ptr(3000), Brightness: ptr(40)})
	colored := mustNew(t, KindColorLamp, "Strip2", Options{Color: ptr("0xFF8800")})

	cam := mustNew(t, KindCamera, "Door", Options{MBPerMinute: 5})
	cam.Camera.UsedStorage = 10

	tests := []struct {
		name string
		d    *Device
		want string
	}{
		{
			name: "plug",
			d:    plug,
			want: "Smart Plug Kettle is off and consumed 2200.00W so far (excluding current device), and its time to switch its status is null.",
		},
		{
			name: "lamp",
			d:    lamp,
			want: "Smart Lamp Desk is on and its kelvin value is 4000K with 100% brightness, and its time to switch its status is 2023-03-31_15:30:00.",
		},
		{
			name: "color lamp in white mode",
			d:    color,
			want: "Smart Color Lamp Strip is off and its color value is 3000K with 40% brightness, and its time to switch its status is null.",
		},
		{
			name: "color lamp in color mode",
			d:    colored,
			want: "Smart Color Lamp Strip2 is off and its color value is 0xFF8800 with 100% brightness, and its time to switch its status is null.",
		},
		{
			name: "camera",
			d:    cam,
			want: "Smart Camera Door is off and used 10.00 MB of storage so far (excluding current status), and its time to switch its status is null.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Describe(); got != tt.want {
				t.Errorf("Describe() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestDescribe_SwitchTimeRoundTrip(t *testing.T) {
	at := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	lamp := mustNew(t, KindLamp, "Desk", Options{})
	lamp.SwitchTime = &at

	line := lamp.Describe()
	const marker = "status is "
	i := strings.LastIndex(line, marker)
	if i < 0 {
		t.Fatalf("no switch time in %q", line)
	}
	rendered := strings.TrimSuffix(line[i+len(marker):], ".")

	parsed, err := clock.Parse(rendered)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", rendered, err)
	}
	if !parsed.Equal(at) {
		t.Errorf("round trip = %v, want %v", parsed, at)
	}
}
