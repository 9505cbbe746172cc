// Package logging wraps zap so every solver-internal event (a DPLL
// decision, a Simplex pivot, a ReLUplex case-split, a learned blocking
// clause) goes through one structured sink instead of scattered
// fmt.Printf calls, the way the ambient logging layer of a production
// Go service is expected to work.
package logging

import (
	"go.uber.org/zap"

	relucore "github.com/songheon2/Ai-verification"
)

// New builds a relucore.Logger backed by a zap.Logger. dev selects
// zap.NewDevelopment's human-readable console encoding over the
// default JSON production encoding. relucore never imports zap
// itself; it only sees the Logger interface this type satisfies.
func New(dev bool) (relucore.Logger, error) {
	var z *zap.Logger
	var err error
	if dev {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &zapLogger{z: z}, nil
}

// NewNoop returns a Logger that discards every event, for callers that
// never asked for tracing.
func NewNoop() relucore.Logger { return relucore.NoopLogger() }

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Decision(varID int, value bool) {
	l.z.Debug("dpll decision", zap.Int("var", varID), zap.Bool("value", value))
}

func (l *zapLogger) Pivot(basic, entering int) {
	l.z.Debug("simplex pivot", zap.Int("basic", basic), zap.Int("entering", entering))
}

func (l *zapLogger) CaseSplit(x, y int, mode string, depth int) {
	l.z.Info("reluplex case split", zap.Int("x", x), zap.Int("y", y), zap.String("mode", mode), zap.Int("depth", depth))
}

func (l *zapLogger) BlockingClause(size int, round int) {
	l.z.Info("dpll(t) blocking clause learned", zap.Int("size", size), zap.Int("round", round))
}
