package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/dca"
)

func newRepo(t *testing.T) (*ProductionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &ProductionRepo{DB: db}, mock
}

func TestListYearly(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`AND year >= ? AND year <= ? ORDER BY year ASC`)).
		WithArgs("F-1", 2015, 2020).
		WillReturnRows(sqlmock.NewRows([]string{"year", "oil", "liquid"}).
			AddRow(2015, 10.0, 12.0).
			AddRow(2016, 19.5, 25.0).
			AddRow(2017, nil, 30.0))

	rows, err := repo.ListYearly(context.Background(), YearlyFilter{FieldID: "F-1", FromYear: 2015, ToYear: 2020})
	require.NoError(t, err)
	assert.Equal(t, []dca.ProductionRow{
		{Year: "2015", Oil: 10, Liquid: 12},
		{Year: "2016", Oil: 19.5, Liquid: 25},
		{Year: "2017", Oil: 0, Liquid: 30},
	}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListYearlyRequiresField(t *testing.T) {
	repo, _ := newRepo(t)
	_, err := repo.ListYearly(context.Background(), YearlyFilter{})
	assert.Error(t, err)
}

func TestListYearlyQueryError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("SELECT year, oil, liquid").WillReturnError(errors.New("gone"))

	_, err := repo.ListYearly(context.Background(), YearlyFilter{FieldID: "F-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query production yearly")
}

func TestListFields(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery("GROUP BY field_id").
		WillReturnRows(sqlmock.NewRows([]string{"field_id", "count", "min", "max"}).
			AddRow("F-1", 12, 2008, 2019).
			AddRow("F-2", 6, 2014, 2019))

	got, err := repo.ListFields(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []FieldInfo{
		{FieldID: "F-1", Years: 12, FirstYear: 2008, LastYear: 2019},
		{FieldID: "F-2", Years: 6, FirstYear: 2014, LastYear: 2019},
	}, got)
}

func TestUpsertYearly(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO field_production_yearly (field_id, year, oil, liquid) VALUES (?,?,?,?), (?,?,?,?) ON DUPLICATE KEY UPDATE")).
		WithArgs("F-1", 2018, 10.0, 12.0, "F-1", 2019, 20.0, 26.0).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := repo.UpsertYearly(context.Background(), "F-1", []dca.ProductionRow{
		{Year: "2018", Oil: 10, Liquid: 12},
		{Year: "Итого", Oil: 99, Liquid: 99},
		{Year: "2019", Oil: 20, Liquid: 26},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertYearlyRollsBack(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO field_production_yearly").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	_, err := repo.UpsertYearly(context.Background(), "F-1", []dca.ProductionRow{{Year: "2018", Oil: 1, Liquid: 2}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertYearlyNothingToWrite(t *testing.T) {
	repo, mock := newRepo(t)
	n, err := repo.UpsertYearly(context.Background(), "F-1", []dca.ProductionRow{{Year: ""}})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
