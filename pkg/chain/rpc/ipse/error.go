package ipse

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

// ErrModule matches every dispatch error raised by the Ipse pallet.
var ErrModule = errors.New("ipse module error")

// Error is a dispatch error raised by the Ipse pallet. The pallet's error
// names are not part of the runtime metadata this client reads, so only the
// indexes are reported.
type Error struct {
	Module uint8
	Index  int64
	err    error
}

func NewError(moduleError types.ModuleError) *Error {
	e := &Error{Module: uint8(moduleError.Index), Index: -1}
	b, err := codec.Encode(moduleError.Error)
	if err != nil {
		e.err = err
		return e
	}
	b = append(b, []byte{0, 0, 0, 0, 0, 0, 0, 0}...)
	if err = binary.Read(bytes.NewBuffer(b[:8]), binary.LittleEndian, &e.Index); err != nil {
		e.Index = -1
		e.err = err
	}
	return e
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("ipse module %d: decode error index: %v", e.Module, e.err)
	}
	return fmt.Sprintf("ipse module %d error %d", e.Module, e.Index)
}

func (e *Error) Unwrap() error {
	if e.err != nil {
		return e.err
	}
	return ErrModule
}
