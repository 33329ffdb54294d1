package common

import (
	"errors"
	"fmt"
	"sync"
)

// ShortAddress compacts a hex address for table display, keeping both ends.
func ShortAddress(addr string) string {
	if len(addr) <= 13 {
		return addr
	}
	return fmt.Sprintf("%s...%s", addr[:6], addr[len(addr)-4:])
}

// RunParallel runs funcs concurrently and waits for all of them. It returns
// the joined error and the number of funcs that failed.
func RunParallel(funcs ...func() error) (error, int) {
	var wg sync.WaitGroup
	errs := make(chan error, len(funcs))

	for _, fn := range funcs {
		wg.Add(1)
		go func(fn func() error) {
			defer wg.Done()
			if err := fn(); err != nil {
				errs <- err
			}
		}(fn)
	}

	wg.Wait()
	close(errs)

	var allErrs []error
	for err := range errs {
		allErrs = append(allErrs, err)
	}

	return errors.Join(allErrs...), len(allErrs)
}
