package scheduler

import (
	"fmt"

	"go.uber.org/zap"
)

// NewZapPanicHandler builds an OnPanic handler that logs a recovered
// panic through logger, identifying the offending system by its dynamic
// type. Install it with Scheduler.OnPanic when structured logging is
// wanted; the scheduler still recovers and continues regardless of
// whether a handler is installed at all.
func NewZapPanicHandler[W any](logger *zap.Logger) func(system System[W], recovered any) {
	return func(system System[W], recovered any) {
		logger.Error("system panicked",
			zap.String("system", fmt.Sprintf("%T", system)),
			zap.Any("recovered", recovered),
		)
	}
}
