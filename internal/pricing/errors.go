package pricing

import "errors"

// ErrInvalidTaxRate is returned when a tax rate falls outside [0, 1]
var ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 1")
