//go:build !linux && !windows && !darwin

package picker

import (
	"context"
	"fmt"
	"runtime"
)

type unsupportedPicker struct{}

func newNativePicker(Options) Picker {
	return unsupportedPicker{}
}

func (unsupportedPicker) SelectDirectory(context.Context) (string, bool, error) {
	return "", false, fmt.Errorf("%w on %s", ErrUnsupported, runtime.GOOS)
}
