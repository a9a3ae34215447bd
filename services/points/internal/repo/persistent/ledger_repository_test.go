package persistent

import (
	"testing"

	"flyerhub/services/points/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// newDryRunDB opens a dry-run session so generated SQL can be inspected
// without a database. Locking and commit behavior need a real postgres and
// are exercised by the integration environment; these tests only pin down
// query construction.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=flyerhub dbname=flyerhub sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	assert.NoError(t, err)
	return db
}

func TestLockBalanceByUser_LooksUpByUserOnly(t *testing.T) {
	db := newDryRunDB(t)

	var gotSQL string
	var gotVars []interface{}
	err := db.Callback().Query().After("gorm:query").Register("capture_query", func(d *gorm.DB) {
		gotSQL = d.Statement.SQL.String()
		gotVars = d.Statement.Vars
	})
	assert.NoError(t, err)

	// A first-earn insert that loses the unique-index race is a no-op on the
	// table, but the id hook has already populated the destination model.
	loser := model.BalanceModel{UserID: "user-1"}
	db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&loser)
	assert.NotEmpty(t, loser.ID)
	staleID := loser.ID

	// Re-reading into the same model must not carry that id into the WHERE
	// clause, or the loser can never see the winner's row.
	err = lockBalanceByUser(db, "user-1", &loser)
	assert.NoError(t, err)
	assert.Contains(t, gotSQL, "user_id")
	assert.Contains(t, gotSQL, "FOR UPDATE")
	assert.NotContains(t, gotSQL, `"point_balances"."id"`)
	assert.NotContains(t, gotVars, staleID)
}
