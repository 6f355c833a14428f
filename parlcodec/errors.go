/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import (
	"fmt"

	"github.com/haraldrudell/parltls"
)

func errUnsupportedFormat(format parltls.Format) (err error) {
	return fmt.Errorf("unsupported resource format %v", format)
}

func errCapability(format parltls.Format, content string) (err error) {
	return fmt.Errorf("format %v cannot carry a %s", format, content)
}
