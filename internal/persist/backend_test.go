package persist

import (
	"context"
	"strings"
	"testing"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	if err == nil || !strings.Contains(err.Error(), "unsupported mirror driver") {
		t.Errorf("expected unsupported-driver error, got %v", err)
	}
}

func TestDialects_DisagreeOnlyWhereTheyMust(t *testing.T) {
	// Both dialects address the same table and columns.
	for _, q := range []string{
		postgresDialect.upsert, postgresDialect.selectOne, postgresDialect.deleteOne,
		mysqlDialect.upsert, mysqlDialect.selectOne, mysqlDialect.deleteOne,
	} {
		if !strings.Contains(q, "pageforge_layouts") {
			t.Errorf("query does not target mirror table: %s", q)
		}
	}
	if !strings.Contains(postgresDialect.upsert, "ON CONFLICT") {
		t.Error("postgres upsert must use ON CONFLICT")
	}
	if !strings.Contains(mysqlDialect.upsert, "ON DUPLICATE KEY") {
		t.Error("mysql upsert must use ON DUPLICATE KEY")
	}
}
