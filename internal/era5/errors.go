package era5

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument matches every validation failure of a download request.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError is returned when a download request holds a value the
// archive does not accept.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrInvalidArgument) hold.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgumentf(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}
