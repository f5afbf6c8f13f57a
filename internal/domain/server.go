package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DefaultPort is assumed whenever a registration does not carry a usable port.
const DefaultPort = 25565

// ServerEntry is one registered game server. JSON field names are fixed by
// the persisted registry document and by the public API.
type ServerEntry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Host        string     `json:"host"`
	Port        int        `json:"port"`
	Description string     `json:"description"`
	Contact     string     `json:"contact"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Port is a JSON scalar tolerating the sloppy values clients actually submit
// for ports: numbers, numeric strings, or junk. It tracks whether the field
// was present at all and whether the submitted value was usable, so the
// registry can tell create-time defaulting apart from update-time skipping.
type Port struct {
	value    int
	provided bool
	usable   bool
}

func (p *Port) UnmarshalJSON(b []byte) error {
	// json.Unmarshal(null, &float64) is a no-op success, so null has to be
	// intercepted before the numeric attempt.
	if string(b) == "null" {
		p.provided = false
		return nil
	}
	p.provided = true
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		p.value = int(f)
		p.usable = f != 0
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		p.usable = true
		if n, err := strconv.Atoi(s); err == nil {
			p.value = n
		} else if f, err := strconv.ParseFloat(s, 64); err == nil {
			p.value = int(f)
		}
		// Unparseable strings keep value 0 and fall back to DefaultPort.
		return nil
	}
	// null, booleans, objects: treat as absent rather than failing the request.
	p.provided = false
	return nil
}

// Provided reports whether the field appeared in the request at all.
func (p Port) Provided() bool { return p.provided }

// Usable reports whether the submitted value should replace an existing port
// on update. Zero and empty values are deliberately not usable.
func (p Port) Usable() bool { return p.usable }

// Value returns the parsed port, falling back to DefaultPort for anything
// absent, zero, or unparseable.
func (p Port) Value() int {
	if p.value == 0 {
		return DefaultPort
	}
	return p.value
}
