/*
© 2023–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package plog

import (
	"github.com/haraldrudell/parltls/perrors"
	"github.com/haraldrudell/parltls/pruntime"
)

// Dx prints to stderr with code location. Thread-safe.
//   - Dx is like D but intended for output that stays in checked-in code
func Dx(format string, a ...interface{}) {
	if err := stderrLogLogger.Output(0,
		pruntime.AppendLocation(
			Sprintf(format, a...),
			pruntime.NewCodeLocation(pruntimeDframes),
		)); err != nil {
		panic(perrors.ErrorfPF("log.Logger.Output error: %w", err))
	}
}
