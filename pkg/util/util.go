package util

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

func IsValidPort[T int | int32 | uint | uint32 | uint64 | int64 | string](port T) error {
	p, err := cast.ToIntE(port)
	if err != nil {
		return errors.Wrap(err, "port is not numeric")
	}

	if p > 0 && p < 65535 {
		return nil
	}
	return errors.Errorf("%d is not a valid port in (0, 65535)", p)
}

func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
