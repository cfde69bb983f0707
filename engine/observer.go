package engine

import (
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/stability"
)

// StabilityEvent reports that the board stopped evolving while running
type StabilityEvent struct {
	Generation     uint64
	Classification stability.Classification
}

// Observer is the render collaborator. GridCommitted is called after every
// committed step and after every edit; StabilityDetected at most once per run.
type Observer interface {
	GridCommitted(g *model.Grid, generation uint64)
	StabilityDetected(ev StabilityEvent)
}

// ObserverFuncs adapts plain functions to Observer; nil fields are skipped
type ObserverFuncs struct {
	OnCommit func(g *model.Grid, generation uint64)
	OnStable func(ev StabilityEvent)
}

func (o ObserverFuncs) GridCommitted(g *model.Grid, generation uint64) {
	if o.OnCommit != nil {
		o.OnCommit(g, generation)
	}
}

func (o ObserverFuncs) StabilityDetected(ev StabilityEvent) {
	if o.OnStable != nil {
		o.OnStable(ev)
	}
}
