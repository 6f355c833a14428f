/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import "github.com/haraldrudell/parltls"

// capability describes what a [parltls.Format] may carry and whether it
// supports encryption, mirroring the format capability table
type capability struct {
	key         bool
	certificate bool
	chain       bool
	encryption  bool
}

var capabilities = map[parltls.Format]capability{
	parltls.FormatASN1:      {key: true, certificate: true},
	parltls.FormatASN1PEM:   {key: true, certificate: true, chain: true, encryption: true},
	parltls.FormatPKCS7:     {certificate: true, chain: true},
	parltls.FormatPKCS7PEM:  {certificate: true, chain: true},
	parltls.FormatPKCS8:     {key: true, encryption: true},
	parltls.FormatPKCS8PEM:  {key: true, encryption: true},
	parltls.FormatPKCS12:    {key: true, certificate: true, chain: true, encryption: true},
}

// checkCapability fails with KindInvalid if r carries content the format
// cap table disallows
func checkCapability(format parltls.Format, r *parltls.Resource) (err error) {
	cap, ok := capabilities[format]
	if !ok {
		return parltls.NewError(parltls.KindInvalid, errUnsupportedFormat(format))
	}
	if r.Key != nil && !cap.key {
		return parltls.NewError(parltls.KindInvalid, errCapability(format, "private key"))
	}
	if r.Certificate != nil && !cap.certificate {
		return parltls.NewError(parltls.KindInvalid, errCapability(format, "end-entity certificate"))
	}
	if len(r.Chain) > 0 && !cap.chain {
		return parltls.NewError(parltls.KindInvalid, errCapability(format, "CA chain"))
	}
	return
}
