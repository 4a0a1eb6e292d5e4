package errors

import (
	stdErrors "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDumpWalksChain(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodePromoServiceUnavailable, cause, "validate promo")

	d := Dump(err)
	if d.Code != CodePromoServiceUnavailable {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if !d.Retryable {
		t.Fatalf("promo service outages are retryable")
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", d.Chain)
	}
	if _, ok := d.Fields()["pg_code"]; ok {
		t.Fatalf("pg fields must be omitted without a postgres error")
	}
}

func TestDumpExtractsPostgresError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "engine_snapshots_pkey", TableName: "engine_snapshots", Message: "duplicate key"}
	d := Dump(Wrap(CodeDependency, pgErr, "save snapshot"))
	if d.PGCode != "23505" || d.PGTable != "engine_snapshots" {
		t.Fatalf("unexpected pg dump %+v", d)
	}
	if d.Fields()["pg_constraint"] != "engine_snapshots_pkey" {
		t.Fatalf("expected constraint in fields")
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected zero dump, got %+v", d)
	}
}
