package report

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// CountPages parses an assembled PDF and returns its page count.
func CountPages(doc []byte) (n int, err error) {
	// the reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return r.NumPage(), nil
}

// VerifyPages checks that doc has exactly want pages.
func VerifyPages(doc []byte, want int) error {
	got, err := CountPages(doc)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: got %d, want %d", ErrPageCount, got, want)
	}
	return nil
}
