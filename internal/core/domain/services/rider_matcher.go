// Package services contains domain services of the dispatch engine, chiefly
// the rider matching policy that pairs pending deliveries with candidate
// riders supplied by the rider directory.
package services

import (
	"errors"

	"github.com/samber/lo"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
)

// ErrNoRiderAvailable is returned when no candidate rider remains for a
// delivery: every candidate is either outside the pool or already rejected it.
var ErrNoRiderAvailable = errors.New("no rider available")

// Candidate is one rider proposed for a delivery, with the routing
// collaborator's ETA estimate in minutes.
type Candidate struct {
	RiderID    kernel.RiderID
	EtaMinutes float64
}

// CandidateSelector is the pluggable selection policy. Implementations pick
// one candidate from a non-empty slice; the real geographic/ETA computation
// already happened in the routing collaborator that produced the candidates.
type CandidateSelector interface {
	Select(candidates []Candidate) (Candidate, error)
}

// LowestEtaSelector is the default policy: favor the smallest ETA,
// first-come on ties.
type LowestEtaSelector struct{}

// NewLowestEtaSelector creates the default selector.
func NewLowestEtaSelector() LowestEtaSelector {
	return LowestEtaSelector{}
}

// Select returns the candidate with the lowest ETA.
func (LowestEtaSelector) Select(candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, ErrNoRiderAvailable
	}
	return lo.MinBy(candidates, func(a, b Candidate) bool {
		return a.EtaMinutes < b.EtaMinutes
	}), nil
}

// RiderMatcher proposes the next rider for a pending delivery.
// Riders that already rejected the delivery are excluded, so a rejection
// naturally moves the matching on to the next candidate.
type RiderMatcher struct {
	selector CandidateSelector
}

// NewRiderMatcher creates a matcher with the given selection policy.
func NewRiderMatcher(selector CandidateSelector) RiderMatcher {
	return RiderMatcher{selector: selector}
}

// Match picks the rider to offer the delivery to.
// Returns ErrNoRiderAvailable when the remaining pool is empty; the caller
// decides whether the matching window still allows another round.
func (m RiderMatcher) Match(d *delivery.Delivery, candidates []Candidate) (Candidate, error) {
	if err := d.Validate(); err != nil {
		return Candidate{}, err
	}
	if d.Status() != delivery.StatusPending {
		return Candidate{}, ErrNoRiderAvailable
	}

	remaining := lo.Filter(candidates, func(c Candidate, _ int) bool {
		return !d.HasTriedRider(c.RiderID)
	})
	return m.selector.Select(remaining)
}
