//go:build integration

// Package testdb provides a PostgreSQL database for integration tests.
//
// The database comes from DATABASE_URL when it is set; otherwise a
// postgres:16-alpine container is started once per test binary with
// testcontainers-go. The embedded goose migrations are applied before the
// first test uses it.
//
// Each test runs in its own transaction that is rolled back afterwards:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        tasks := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
