// Package probe asks an external status API about a server's live state.
// Probing is best effort: every failure mode collapses into the degraded
// status result, never into an error for the caller.
package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/minedex/minedex/internal/domain"
	"github.com/minedex/minedex/internal/logger"
)

// DefaultTimeout bounds a single outbound status query.
const DefaultTimeout = 10 * time.Second

// Prober issues status queries against the configured status API.
type Prober struct {
	apiURL   string
	password string
	timeout  time.Duration
	client   *http.Client
	log      logger.Logger
}

// New builds a Prober. An empty apiURL disables real probing: every probe
// reports the degraded status.
func New(apiURL, password string, timeout time.Duration, log logger.Logger) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{
		apiURL:   apiURL,
		password: password,
		timeout:  timeout,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// envelope mirrors the status API's response document.
type envelope struct {
	Success bool    `json:"success"`
	Data    *report `json:"data"`
}

type report struct {
	Online  bool `json:"online"`
	Players struct {
		Online int `json:"online"`
		Max    int `json:"max"`
	} `json:"players"`
	Version string `json:"version"`
	Ping    int    `json:"ping"`
	Motd    string `json:"motd"`
}

// Probe queries the live status of one server, bounded by the configured
// timeout. The timeout cancels the outbound call deterministically; no retry
// is attempted.
func (p *Prober) Probe(ctx context.Context, host string, port int) domain.Status {
	if p.apiURL == "" {
		p.log.Debug("status api not configured, reporting degraded status")
		return domain.DegradedStatus()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	u, err := url.Parse(p.apiURL)
	if err != nil {
		p.log.Warn("invalid status api url", logger.Error(err))
		return domain.DegradedStatus()
	}
	q := u.Query()
	q.Set("host", host)
	q.Set("port", strconv.Itoa(port))
	if p.password != "" {
		q.Set("password", p.password)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		p.log.Warn("failed to build status request", logger.Error(err))
		return domain.DegradedStatus()
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("status query failed",
			logger.String("host", host),
			logger.Int("port", port),
			logger.Error(err))
		return domain.DegradedStatus()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		p.log.Warn("status api answered non-success",
			logger.String("host", host),
			logger.Int("code", resp.StatusCode))
		return domain.DegradedStatus()
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		p.log.Warn("malformed status payload",
			logger.String("host", host),
			logger.Error(err))
		return domain.DegradedStatus()
	}
	if !env.Success || env.Data == nil {
		p.log.Warn("status api reported failure", logger.String("host", host))
		return domain.DegradedStatus()
	}

	return normalize(env.Data)
}

// normalize fills the gaps a sparse payload leaves: absent version reads
// "unknown", an absent or zero ping reads -1.
func normalize(r *report) domain.Status {
	st := domain.Status{
		Online:     r.Online,
		Players:    r.Players.Online,
		MaxPlayers: r.Players.Max,
		Version:    r.Version,
		Ping:       r.Ping,
		MOTD:       r.Motd,
	}
	if st.Version == "" {
		st.Version = "unknown"
	}
	if st.Ping == 0 {
		st.Ping = -1
	}
	return st
}
