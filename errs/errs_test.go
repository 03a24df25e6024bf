package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnError(t *testing.T) {
	err := &ColumnError{Op: "read", ID: "abc", Name: "IQ", Err: fmt.Errorf("%w: short file", io.ErrUnexpectedEOF)}

	require.Contains(t, err.Error(), `read column "IQ" (id abc)`)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var colErr *ColumnError
	wrapped := fmt.Errorf("load table: %w", err)
	require.True(t, errors.As(wrapped, &colErr))
	require.Equal(t, "abc", colErr.ID)
}

func TestCellError(t *testing.T) {
	err := &CellError{Row: 7, Column: "age", Value: "x1", Err: ErrTypeMismatch}

	require.Equal(t, `row 7, column "age": cannot parse "x1": column type mismatch`, err.Error())
	require.ErrorIs(t, err, ErrTypeMismatch)
}
