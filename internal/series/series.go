// Package series reads the value,time CSV that subtitle tracks are generated
// from.
//
// Rows come back in file order with their raw fields; nothing is parsed or
// sorted here. The time field is expected in the canonical HH:MM:SS[,mmm]
// clock form, the value field is a decimal number or empty. A record that is
// not valid CSV or has the wrong number of fields still yields a Row, with Err
// set, so that callers can skip it and go on.
package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// one CSV record
type Row struct {
	Line  int // 1-based line in the source file
	Value string
	Time  string
	Err   error // non-nil for a malformed record; Value and Time hold what was read
}

func (r Row) String() string {
	return fmt.Sprintf("[%s, %s]", r.Value, r.Time)
}

var (
	// ErrMalformedRecord marks every Row.Err.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrFieldCount marks a record that does not have exactly two fields.
	ErrFieldCount = errors.New("expected exactly two fields: value,time")
)

var millisField = regexp.MustCompile(`^[0-9]{3}$`)

func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.ReuseRecord = true

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			rows = append(rows, Row{
				Line: csvErr.StartLine,
				Err:  fmt.Errorf("%w: %w", ErrMalformedRecord, err),
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := reader.FieldPos(0)
		timeField, ok := joinTime(record)
		if !ok {
			rows = append(rows, Row{
				Line:  line,
				Value: strings.TrimSpace(record[0]),
				Time:  strings.Join(record[1:], ","),
				Err: fmt.Errorf(
					"%w: line %d: %w, got %d",
					ErrMalformedRecord,
					line,
					ErrFieldCount,
					len(record),
				),
			})
			continue
		}

		rows = append(rows, Row{
			Line:  line,
			Value: strings.TrimSpace(record[0]),
			Time:  timeField,
		})
	}

	return rows, nil
}

// joinTime accepts value,time and the unquoted value,HH:MM:SS,mmm form, where
// the millisecond group lands in a third field.
func joinTime(record []string) (string, bool) {
	switch len(record) {
	case 2:
		return strings.TrimSpace(record[1]), true
	case 3:
		millis := strings.TrimSpace(record[2])
		if !millisField.MatchString(millis) {
			return "", false
		}
		return strings.TrimSpace(record[1]) + "," + millis, true
	default:
		return "", false
	}
}

func ReadFile(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
