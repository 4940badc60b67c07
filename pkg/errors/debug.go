package errors

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrorDump flattens an error chain for logging, including driver codes when
// the root cause came from SQLite.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	SQLiteCode     int    `json:"sqlite_code,omitempty"`
	SQLiteExtended int    `json:"sqlite_extended_code,omitempty"`
	SQLiteMessage  string `json:"sqlite_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		d.SQLiteCode = int(sqlErr.Code)
		d.SQLiteExtended = int(sqlErr.ExtendedCode)
		d.SQLiteMessage = sqlErr.Error()
	}

	return d
}
