package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
)

type Result[T any] struct {
	Value T
	Error error
}

type FromCSV[T any] func(record, headers []string) (T, error)

// ParseCSV yields one decoded value per CSV row. When hasHeader is set the first
// row is consumed as the header and handed to fn alongside every record.
// Iteration stops after the first error.
func ParseCSV[T any](reader io.Reader, hasHeader bool, fn FromCSV[T]) iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		r := csv.NewReader(reader)
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true

		var headers []string
		line := 0
		for {
			record, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			line++
			if err != nil {
				yield(Result[T]{Error: fmt.Errorf("line %d: %w", line, err)})
				return
			}
			if hasHeader && headers == nil {
				headers = record
				continue
			}

			value, err := fn(record, headers)
			if err != nil {
				yield(Result[T]{Error: fmt.Errorf("line %d: %w", line, err)})
				return
			}
			if !yield(Result[T]{Value: value}) {
				return
			}
		}
	}
}
