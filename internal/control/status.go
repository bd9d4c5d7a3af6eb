package control

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/mutker/smcfanctl/internal/smc"
)

// FormatStatus renders the per-tick status line. The spacing and decimal
// precision are an operational contract; tooling parses these lines.
//
//	Speed: 3700, *AVG: 60.0C,  TC0P: 52.5C,  TG0P: 49.0C
//
// The winning source carries a '*' mark, the others a space. At verbosity
// above 1 the line is extended with every non-excluded sensor's value.
func FormatStatus(target FanTarget, r Readings, sensors []smc.Sensor, verbosity int) string {
	mark := func(s Source) string {
		if target.Source == s {
			return "*"
		}

		return " "
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Speed: %d, %sAVG: %.1fC", target.Speed, mark(SourceAvg), r.Avg)
	if r.HasTC0P {
		fmt.Fprintf(&b, ", %sTC0P: %.1fC", mark(SourceTC0P), r.TC0P)
	}
	if r.HasTG0P {
		fmt.Fprintf(&b, ", %sTG0P: %.1fC", mark(SourceTG0P), r.TG0P)
	}

	if verbosity > 1 {
		b.WriteString(", Sensors: ")
		for i := range sensors {
			if sensors[i].Excluded {
				continue
			}
			name := sensors[i].Label
			if name == "" {
				name = strconv.Itoa(sensors[i].ID)
			}
			fmt.Fprintf(&b, "%s:%.0f ", name, sensors[i].Value)
		}
	}

	return b.String()
}
