package prdriver

import (
	"context"
	"time"

	"github.com/zhubert/plural-orchestrator/internal/logger"
)

// InitialPollInterval and MaxPollInterval bound the doubling backoff
// applied between poll cycles: the interval doubles after a pass that
// finds no pull request for any eligible session and resets to
// InitialPollInterval after a pass that finds at least one.
const (
	InitialPollInterval = 15 * time.Second
	MaxPollInterval     = 2 * time.Minute
)

// Eligible is one session whose PR state should be polled.
type Eligible struct {
	SessionID string
	RepoPath  string
	Branch    string
}

// PollResult pairs a session with its freshly-observed PR status.
type PollResult struct {
	SessionID string
	Status    Status
}

// Poller drives the repeated background PR-state check, batching
// sessions by repo so one repo with five open sessions costs one gh
// call, not five.
type Poller struct {
	driver   *Driver
	interval time.Duration
}

// NewPoller starts a Poller at InitialPollInterval.
func NewPoller(driver *Driver) *Poller {
	return &Poller{driver: driver, interval: InitialPollInterval}
}

// PollOnce checks every eligible session's PR state in one pass, grouping
// by repo path to minimize gh invocations, and returns results for
// sessions where a PR row was found.
func (p *Poller) PollOnce(ctx context.Context, eligible []Eligible) ([]PollResult, error) {
	log := logger.ComponentLogger("prdriver.poller")

	byRepo := make(map[string][]Eligible)
	for _, e := range eligible {
		byRepo[e.RepoPath] = append(byRepo[e.RepoPath], e)
	}

	var results []PollResult
	for repoPath, sessions := range byRepo {
		branches := make([]string, len(sessions))
		for i, s := range sessions {
			branches[i] = s.Branch
		}

		statuses, err := p.driver.BatchPollStates(ctx, repoPath, branches)
		if err != nil {
			log.Warn("batch PR poll failed for repo", "repo", repoPath, "error", err)
			continue
		}

		for _, s := range sessions {
			if st, ok := statuses[s.Branch]; ok {
				results = append(results, PollResult{SessionID: s.SessionID, Status: st})
			}
		}
	}

	if len(results) > 0 {
		p.interval = InitialPollInterval
	} else {
		p.interval *= 2
		if p.interval > MaxPollInterval {
			p.interval = MaxPollInterval
		}
	}

	return results, nil
}

// NextInterval reports the delay the caller should wait before the next
// PollOnce, reflecting the current backoff state.
func (p *Poller) NextInterval() time.Duration {
	return p.interval
}

// Run polls on a loop until ctx is canceled, invoking onResults after
// every pass that finds at least one eligible session. getEligible is
// called fresh each cycle so the caller's live session set is respected.
func (p *Poller) Run(ctx context.Context, getEligible func() []Eligible, onResults func([]PollResult)) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			eligible := getEligible()
			if len(eligible) > 0 {
				results, err := p.PollOnce(ctx, eligible)
				if err == nil && onResults != nil {
					onResults(results)
				}
			}
			timer.Reset(p.interval)
		}
	}
}
