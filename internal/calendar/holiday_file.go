package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// HolidayFile reads extra holiday and annotation tables from a text file and
// registers each section as a new calendar variant.
//
// Format:
//
//	# comment
//	[persian/Office : Iran]
//	01-05 holiday Company day
//	07-01 note Fiscal year starts
//
// A section names the system, the new variant and optionally the base variant
// it extends (the system default when omitted).
type HolidayFile struct {
	filePath string
	logger   *zap.Logger
	sections []*holidaySection
}

type holidaySection struct {
	system      string
	variant     string
	base        string
	holidays    map[int][]int
	annotations map[int]map[int][]string
	entries     int
}

// NewHolidayFile creates a loader for filePath.
func NewHolidayFile(filePath string, logger *zap.Logger) *HolidayFile {
	return &HolidayFile{
		filePath: filePath,
		logger:   logger,
	}
}

// Load parses the file. Malformed entry lines are logged and skipped;
// malformed section headers fail the load.
func (hf *HolidayFile) Load() error {
	file, err := os.Open(hf.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	hf.sections = nil
	var current *holidaySection

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			section, err := parseSectionHeader(line)
			if err != nil {
				return fmt.Errorf("%s:%d: %w", hf.filePath, lineNo, err)
			}
			hf.sections = append(hf.sections, section)
			current = section
			continue
		}

		if current == nil {
			hf.logger.Warn("Holiday entry outside of a section",
				zap.String("file", hf.filePath),
				zap.Int("line", lineNo))
			continue
		}

		// Format: MM-DD kind [text]
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			hf.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		month, day, err := parseMonthDay(parts[0])
		if err != nil {
			hf.logger.Warn("Failed to parse day", zap.String("day", parts[0]), zap.Error(err))
			continue
		}

		text := ""
		if len(parts) == 3 {
			text = strings.TrimSpace(parts[2])
		}

		switch parts[1] {
		case "holiday":
			current.holidays[month] = append(current.holidays[month], day)
		case "note":
			if text == "" {
				hf.logger.Warn("Note without text", zap.String("line", line))
				continue
			}
		default:
			hf.logger.Warn("Unknown entry kind", zap.String("kind", parts[1]))
			continue
		}

		if text != "" {
			if current.annotations[month] == nil {
				current.annotations[month] = make(map[int][]string)
			}
			current.annotations[month][day] = append(current.annotations[month][day], text)
		}
		current.entries++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	hf.logger.Info("Holiday file loaded",
		zap.String("file", hf.filePath),
		zap.Int("sections", len(hf.sections)))

	return nil
}

// Register builds one spec per loaded section and adds it to r.
func (hf *HolidayFile) Register(r *Registry) ([]*Spec, error) {
	specs := make([]*Spec, 0, len(hf.sections))
	for _, s := range hf.sections {
		base, err := r.Lookup(s.system, s.base)
		if err != nil {
			return specs, fmt.Errorf("%s: section %s/%s: %w", hf.filePath, s.system, s.variant, err)
		}

		for month, days := range s.holidays {
			for _, day := range days {
				if month > base.MonthCount() || day > base.MaxMonthLength() {
					return specs, fmt.Errorf("%s: section %s/%s: %w: %02d-%02d",
						hf.filePath, s.system, s.variant, ErrInvalidDate, month, day)
				}
			}
		}
		for month, byDay := range s.annotations {
			for day := range byDay {
				if month > base.MonthCount() || day > base.MaxMonthLength() {
					return specs, fmt.Errorf("%s: section %s/%s: %w: %02d-%02d",
						hf.filePath, s.system, s.variant, ErrInvalidDate, month, day)
				}
			}
		}

		spec, err := base.derive(s.variant, s.holidays, s.annotations)
		if err != nil {
			return specs, err
		}
		if err := r.Register(spec); err != nil {
			return specs, err
		}
		specs = append(specs, spec)

		hf.logger.Info("Calendar variant registered",
			zap.String("system", spec.Name()),
			zap.String("base", base.Name()),
			zap.Int("entries", s.entries))
	}
	return specs, nil
}

// LoadHolidayFiles loads and registers every file in order.
func LoadHolidayFiles(r *Registry, paths []string, logger *zap.Logger) error {
	for _, path := range paths {
		hf := NewHolidayFile(path, logger)
		if err := hf.Load(); err != nil {
			return err
		}
		if _, err := hf.Register(r); err != nil {
			return err
		}
	}
	return nil
}

func parseSectionHeader(line string) (*holidaySection, error) {
	if !strings.HasSuffix(line, "]") {
		return nil, fmt.Errorf("unterminated section header %q", line)
	}
	body := strings.TrimSpace(line[1 : len(line)-1])

	base := ""
	if name, b, ok := strings.Cut(body, ":"); ok {
		body = strings.TrimSpace(name)
		base = strings.TrimSpace(b)
	}

	system, variant, ok := strings.Cut(body, "/")
	system = strings.TrimSpace(system)
	variant = strings.TrimSpace(variant)
	if !ok || system == "" || variant == "" {
		return nil, fmt.Errorf("section header %q must be [system/variant]", line)
	}
	if _, err := ParseSystem(system); err != nil {
		return nil, err
	}

	return &holidaySection{
		system:      system,
		variant:     variant,
		base:        base,
		holidays:    make(map[int][]int),
		annotations: make(map[int]map[int][]string),
	}, nil
}

func parseMonthDay(s string) (int, int, error) {
	m, d, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("expected MM-DD, got %q", s)
	}
	month, err := strconv.Atoi(m)
	if err != nil {
		return 0, 0, err
	}
	day, err := strconv.Atoi(d)
	if err != nil {
		return 0, 0, err
	}
	if month < 1 || day < 1 {
		return 0, 0, fmt.Errorf("month and day must be positive, got %q", s)
	}
	return month, day, nil
}
