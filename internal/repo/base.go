package repo

import (
	"context"

	"github.com/angelmondragon/counterpos/pkg/db"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// WithTx returns a copy bound to tx; a nil tx keeps the current connection.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Classify maps a storage failure onto the error taxonomy. Typed errors pass
// through untouched.
func Classify(err error, action string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	switch {
	case db.IsNotFound(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, action+": not found")
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, action+": duplicate value").
			WithDetails(map[string]any{"constraint": "unique"})
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, action+": referenced row missing").
			WithDetails(map[string]any{"constraint": "foreign_key"})
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, action+": value out of range")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, action)
	}
}
