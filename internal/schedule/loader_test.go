package schedule

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

func writeSchedule(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validSchedule = `
min_advance_days = 1
max_advance_days = 30
allow_overlap = true

holidays = ["2026-01-01", "2026-12-25"]

[week.monday]
open = "16:00"
close = "20:00"
slots = ["16:00", "16:30", "17:00"]

[week.saturday]
open = "09:00"
close = "13:30"
slots = ["09:00", "09:30"]

[services.corte]
name = "Corte de pelo"
duration_minutes = 45
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeSchedule(t, validSchedule))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.MinAdvanceDays)
	assert.Equal(t, 30, cfg.MaxAdvanceDays)
	assert.True(t, cfg.AllowOverlap)

	require.Contains(t, cfg.WeeklySchedule, time.Monday)
	monday := cfg.WeeklySchedule[time.Monday]
	assert.Equal(t, types.TimeString("16:00"), monday.Open)
	assert.Equal(t, types.TimeString("20:00"), monday.Close)
	assert.Len(t, monday.Slots, 3)

	// Дни без секции закрыты
	assert.Nil(t, cfg.WeeklySchedule[time.Sunday])
	assert.Nil(t, cfg.WeeklySchedule[time.Wednesday])

	assert.True(t, cfg.IsHoliday(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cfg.IsHoliday(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))

	svc, ok := cfg.Service("corte")
	require.True(t, ok)
	assert.Equal(t, "Corte de pelo", svc.Name)
	assert.Equal(t, 45, svc.DurationMinutes)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeSchedule(t, `
[week.monday]
open = "16:00"
close = "20:00"
slots = ["16:00"]

[services.corte]
name = "Corte de pelo"
duration_minutes = 45
`))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultMinAdvanceDays, cfg.MinAdvanceDays)
	assert.Equal(t, domain.DefaultMaxAdvanceDays, cfg.MaxAdvanceDays)
	assert.True(t, cfg.AllowOverlap)
	assert.Empty(t, cfg.Holidays)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "min greater than max",
			content: `
min_advance_days = 10
max_advance_days = 5
[week.monday]
open = "16:00"
close = "20:00"
slots = ["16:00"]
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
		{
			name: "max beyond limit",
			content: `
max_advance_days = 400
[week.monday]
open = "16:00"
close = "20:00"
slots = ["16:00"]
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
		{
			name: "unknown weekday",
			content: `
[week.lunes]
open = "16:00"
close = "20:00"
slots = ["16:00"]
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
		{
			name: "invalid holiday date",
			content: `
holidays = ["01/01/2026"]
[week.monday]
open = "16:00"
close = "20:00"
slots = ["16:00"]
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
		{
			name: "no services",
			content: `
[week.monday]
open = "16:00"
close = "20:00"
slots = ["16:00"]
`,
		},
		{
			name: "service duration out of range",
			content: `
[week.monday]
open = "16:00"
close = "20:00"
slots = ["16:00"]
[services.corte]
name = "Corte"
duration_minutes = 600
`,
		},
		{
			name: "open after close",
			content: `
[week.monday]
open = "20:00"
close = "16:00"
slots = ["16:00"]
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
		{
			name: "day without slots",
			content: `
[week.monday]
open = "16:00"
close = "20:00"
slots = []
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
		{
			name: "slot outside working hours",
			content: `
[week.monday]
open = "16:00"
close = "20:00"
slots = ["15:30"]
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
		{
			name: "slot at close is invalid",
			content: `
[week.monday]
open = "16:00"
close = "20:00"
slots = ["16:00", "20:00"]
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
		{
			name: "slots not strictly increasing",
			content: `
[week.monday]
open = "16:00"
close = "20:00"
slots = ["17:00", "16:30"]
[services.corte]
name = "Corte"
duration_minutes = 45
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSchedule(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}
