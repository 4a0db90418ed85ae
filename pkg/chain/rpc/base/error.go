package base

import "errors"

var (
	TokenError         = errors.New("token error")
	ArithmeticError    = errors.New("arithmetic error")
	TransactionalError = errors.New("transactional error")
	NotMatchModelError = errors.New("not match model error")

	ExtrinsicDroppedError  = errors.New("extrinsic dropped")
	ExtrinsicInvalidError  = errors.New("extrinsic invalid")
	ExtrinsicUsurpedError  = errors.New("extrinsic usurped")
	ExtrinsicTimeoutError  = errors.New("extrinsic finality timeout")
	ExtrinsicNotFoundError = errors.New("extrinsic not found in block")
)
