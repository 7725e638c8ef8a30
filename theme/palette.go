package theme

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type RGB [3]uint8

type Palette struct {
	Name   string
	Colors []RGB
}

// Default is a plasma-like gradient, dark purple through magenta to yellow.
// Used when no .gpl file is configured.
func Default() *Palette {
	return &Palette{
		Name: "plasma",
		Colors: []RGB{
			{13, 8, 135},
			{70, 3, 159},
			{114, 1, 168},
			{156, 23, 158},
			{189, 55, 134},
			{216, 87, 107},
			{237, 121, 83},
			{251, 159, 58},
			{253, 202, 38},
			{240, 249, 33},
		},
	}
}

// LoadGPL parses a GIMP palette file. Lines starting with "GIMP",
// "Columns", "#" or blank lines are skipped; the rest are "R G B [name]".
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) >= 3 {
			r, err1 := strconv.Atoi(fields[0])
			g, err2 := strconv.Atoi(fields[1])
			b, err3 := strconv.Atoi(fields[2])
			if err1 == nil && err2 == nil && err3 == nil {
				p.Colors = append(p.Colors, RGB{uint8(r), uint8(g), uint8(b)})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", path)
	}

	return p, nil
}

// Lookup returns the interpolated color for a normalized value 0-1.
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i]
	c1 := p.Colors[i+1]

	return RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}
