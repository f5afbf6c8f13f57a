package domain

// Status is the normalized live-status shape for one server, as reported by
// the status probe. All probe outcomes collapse into this shape.
type Status struct {
	Online     bool   `json:"online"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Ping       int    `json:"ping"`
	MOTD       string `json:"motd"`
}

// DegradedStatus is what a probe reports when the status endpoint cannot be
// reached or answers garbage. Probing failures are data, not errors.
func DegradedStatus() Status {
	return Status{
		Online:     false,
		Players:    0,
		MaxPlayers: 0,
		Version:    "unknown",
		Ping:       -1,
		MOTD:       "status query failed",
	}
}
