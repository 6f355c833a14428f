/*
© 2023–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package plog

import (
	"github.com/haraldrudell/parltls/pruntime"
)

// OutputInvoker provides Invoke function for specific code location
type OutputInvoker struct {
	// the code location appended to debug print
	codeLocation *pruntime.CodeLocation
	// the function receiving the formatted output
	invokeOutput func(s string)
}

// NewOutputInvoker returns an OutputInvoker that passes output to invokeOutput for a specific code location
func NewOutputInvoker(
	codeLocation *pruntime.CodeLocation,
	invokeOutput func(s string),
) (outputInvoker *OutputInvoker) {
	return &OutputInvoker{
		codeLocation: codeLocation,
		invokeOutput: invokeOutput,
	}
}

// Invoke invokes the stored invokeOutput function for the stored code location
func (o *OutputInvoker) Invoke(format string, a ...any) {
	o.invokeOutput(
		pruntime.AppendLocation(
			Sprintf(format, a...), // collapse format and a to single string
			o.codeLocation,
		))
}
