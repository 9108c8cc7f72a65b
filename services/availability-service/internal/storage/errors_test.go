package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsConflict(t *testing.T) {
	exclusion := &pgconn.PgError{Code: "23P01"}
	if !IsConflict(exclusion) {
		t.Error("exclusion violation should be a conflict")
	}
	if !IsConflict(fmt.Errorf("create appointment: %w", exclusion)) {
		t.Error("wrapped exclusion violation should be a conflict")
	}
	if IsConflict(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation is not an overlap conflict")
	}
	if IsConflict(errors.New("boom")) {
		t.Error("plain errors are not conflicts")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(pgx.ErrNoRows) {
		t.Error("ErrNoRows should be not-found")
	}
	if !IsNotFound(fmt.Errorf("get appointment: %w", pgx.ErrNoRows)) {
		t.Error("wrapped ErrNoRows should be not-found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("plain errors are not not-found")
	}
}
