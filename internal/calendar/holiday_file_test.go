package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeHolidayFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write holiday file: %v", err)
	}
	return path
}

func TestHolidayFile_LoadAndRegister(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := writeHolidayFile(t, `# office calendar
[persian/Office : Iran]
01-05 holiday Company day
07-01 note Fiscal year starts
bad line
12-30 holiday

[gregorian/Office]
07-04 holiday
`)

	r := NewRegistry()
	hf := NewHolidayFile(path, logger)
	if err := hf.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	specs, err := hf.Register(r)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("registered %d specs, want 2", len(specs))
	}

	office, err := r.Lookup("Persian", "office")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	tests := []struct {
		name    string
		y, m, d int
		holiday bool
		notes   []string
	}{
		{"inherited nowruz", 1403, 1, 1, true, []string{"Nowrooz"}},
		{"company day", 1403, 1, 5, true, []string{"Company day"}},
		{"note only", 1403, 7, 1, false, []string{"Fiscal year starts"}},
		{"esfand 30 on 29", 1402, 12, 29, true, []string{"Nationalization of Oil Industry"}},
		{"plain day", 1403, 2, 2, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := office.IsHoliday(tt.y, tt.m, tt.d); got != tt.holiday {
				t.Errorf("IsHoliday() = %v, want %v", got, tt.holiday)
			}
			got := office.Annotations(tt.y, tt.m, tt.d)
			if len(got) != len(tt.notes) {
				t.Fatalf("Annotations() = %v, want %v", got, tt.notes)
			}
			for i := range got {
				if got[i] != tt.notes[i] {
					t.Errorf("Annotations()[%d] = %q, want %q", i, got[i], tt.notes[i])
				}
			}
		})
	}

	gregorian, err := r.Lookup("Gregorian", "Office")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !gregorian.IsHoliday(2024, 7, 4) || !gregorian.IsHoliday(2024, 12, 25) {
		t.Error("Gregorian/Office should hold July 4 and inherited Christmas")
	}

	// The base table is untouched.
	base, _ := r.Lookup("Persian", "Iran")
	if base.IsHoliday(1403, 1, 5) {
		t.Error("base Persian/Iran table was modified")
	}

	if _, err := hf.Register(r); !errors.Is(err, ErrDuplicateCalendarSystem) {
		t.Errorf("second Register() error = %v, want ErrDuplicateCalendarSystem", err)
	}
}

func TestHolidayFile_Errors(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		body       string
		loadErr    bool
		registerIs error
	}{
		{"unknown system", "[klingon/x]\n", true, nil},
		{"missing variant", "[persian]\n", true, nil},
		{"unterminated header", "[persian/x\n", true, nil},
		{"month out of range", "[persian/x]\n13-01 holiday\n", false, ErrInvalidDate},
		{"day out of range", "[gregorian/x]\n02-32 holiday\n", false, ErrInvalidDate},
		{"unknown base", "[islamic/x : Morocco]\n", false, ErrUnknownCalendarSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hf := NewHolidayFile(writeHolidayFile(t, tt.body), logger)
			err := hf.Load()
			if tt.loadErr {
				if err == nil {
					t.Error("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if _, err := hf.Register(NewRegistry()); !errors.Is(err, tt.registerIs) {
				t.Errorf("Register() error = %v, want %v", err, tt.registerIs)
			}
		})
	}
}

func TestLoadHolidayFiles_Missing(t *testing.T) {
	err := LoadHolidayFiles(NewRegistry(), []string{filepath.Join(t.TempDir(), "none.txt")}, zap.NewNop())
	if err == nil {
		t.Error("LoadHolidayFiles() expected error for a missing file")
	}
}
