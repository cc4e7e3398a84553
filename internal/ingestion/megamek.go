package ingestion

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MTFData holds the parts of a MegaMek .mtf file the loadout assembler reads.
type MTFData struct {
	// Header
	Chassis    string
	Model      string
	MulID      int
	Config     string
	TechBase   string
	Era        int
	Source     string
	RulesLevel int

	// Quirks
	Quirks []string

	Mass int

	// Weapons summary
	Weapons []WeaponEntry

	// Per-location critical slots, in file order
	LocationEquipment map[string][]string

	SystemManufacturer map[string]string // system -> manufacturer line
	SystemMode         map[string]string // system -> model line
}

// WeaponEntry is a weapon from the Weapons:N summary block.
type WeaponEntry struct {
	Name     string
	Location string
}

// ParseMTF reads a MegaMek .mtf file and returns structured data.
func ParseMTF(path string) (*MTFData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtf: %w", err)
	}
	defer f.Close()
	return ParseMTFReader(f)
}

// ParseMTFReader is ParseMTF over an open reader.
func ParseMTFReader(r io.Reader) (*MTFData, error) {
	data := &MTFData{
		LocationEquipment:  make(map[string][]string),
		SystemManufacturer: make(map[string]string),
		SystemMode:         make(map[string]string),
	}

	scanner := bufio.NewScanner(r)
	// Increase buffer for files with long lore lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var currentLocation string
	var inWeapons bool

	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		lower := strings.ToLower(trimmed)

		if loc := matchLocationHeader(trimmed); loc != "" {
			currentLocation = loc
			inWeapons = false
			continue
		}

		if strings.HasPrefix(lower, "weapons:") {
			inWeapons = true
			currentLocation = ""
			continue
		}

		if currentLocation != "" {
			data.LocationEquipment[currentLocation] = append(data.LocationEquipment[currentLocation], trimmed)
			continue
		}

		if inWeapons {
			if parts := strings.SplitN(trimmed, ",", 2); len(parts) == 2 {
				data.Weapons = append(data.Weapons, WeaponEntry{
					Name:     strings.TrimSpace(parts[0]),
					Location: strings.TrimSpace(parts[1]),
				})
				continue
			}
			// A key:value line ends the summary block.
			inWeapons = false
		}

		if idx := strings.Index(trimmed, ":"); idx >= 0 {
			key := strings.ToLower(strings.TrimSpace(trimmed[:idx]))
			val := strings.TrimSpace(trimmed[idx+1:])

			switch key {
			case "chassis":
				data.Chassis = val
			case "model":
				data.Model = val
			case "mul id":
				data.MulID, _ = strconv.Atoi(val)
			case "config":
				data.Config = val
			case "techbase":
				data.TechBase = val
			case "era":
				data.Era, _ = strconv.Atoi(val)
			case "source":
				data.Source = val
			case "rules level":
				data.RulesLevel, _ = strconv.Atoi(val)
			case "quirk":
				if val != "" {
					data.Quirks = append(data.Quirks, val)
				}
			case "mass":
				data.Mass, _ = strconv.Atoi(val)
			case "systemmanufacturer":
				if parts := strings.SplitN(val, ":", 2); len(parts) == 2 {
					data.SystemManufacturer[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
				}
			case "systemmode":
				if parts := strings.SplitN(val, ":", 2); len(parts) == 2 {
					data.SystemMode[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan mtf: %w", err)
	}

	if data.Chassis == "" {
		return nil, fmt.Errorf("missing chassis field")
	}

	return data, nil
}

// matchLocationHeader checks if a line is a location header like "Left Arm:" or "Front Left Leg:"
func matchLocationHeader(line string) string {
	for _, loc := range locationHeaders {
		if line == loc+":" {
			return loc
		}
	}
	return ""
}

// FullName returns "Chassis Model" or just "Chassis" if model is empty.
func (d *MTFData) FullName() string {
	if d.Model == "" {
		return d.Chassis
	}
	return d.Chassis + " " + d.Model
}
