package repo

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	require.Equal(t, ctx, withCtx.Statement.Context)

	require.Same(t, db, base.DB(nil))
}

func TestBaseWithTx(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	require.Same(t, db, base.WithTx(nil).db)

	tx := db.Session(&gorm.Session{NewDB: true})
	require.Same(t, tx, base.WithTx(tx).db)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pkgerrors.Code
	}{
		{name: "not found", err: gorm.ErrRecordNotFound, want: pkgerrors.CodeNotFound},
		{name: "unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, want: pkgerrors.CodeIntegrity},
		{name: "foreign key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, want: pkgerrors.CodeIntegrity},
		{name: "check", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, want: pkgerrors.CodeValidation},
		{name: "busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: pkgerrors.CodeStorage},
		{name: "other", err: errors.New("disk I/O error"), want: pkgerrors.CodeStorage},
		{name: "typed passthrough", err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "short"), want: pkgerrors.CodeInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pkgerrors.As(Classify(tt.err, "load item"))
			require.NotNil(t, got)
			require.Equal(t, tt.want, got.Code())
		})
	}

	require.NoError(t, Classify(nil, "noop"))
}
