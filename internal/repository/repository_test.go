package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

func setupMock(t *testing.T, driver string) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, driver)
	closer := func() {
		require.NoError(t, mock.ExpectationsWereMet())
		sqlxDB.Close()
	}
	return sqlxDB, mock, closer
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestBookingCreateMySQL(t *testing.T) {
	db, mock, close := setupMock(t, "mysql")
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings (first_name, reservation_date, reservation_slot) VALUES (?, ?, ?)")).
		WithArgs("Ann", "2024-06-10", 18).
		WillReturnResult(sqlmock.NewResult(7, 1))

	b := &model.Booking{FirstName: "Ann", ReservationDate: day(t, "2024-06-10"), ReservationSlot: 18}
	require.NoError(t, NewBookingRepo(db).Create(context.Background(), b))
	require.Equal(t, uint64(7), b.ID)
}

func TestBookingCreatePostgres(t *testing.T) {
	db, mock, close := setupMock(t, "pgx")
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (first_name, reservation_date, reservation_slot) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs("Ann", "2024-06-10", 18).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	b := &model.Booking{FirstName: "Ann", ReservationDate: day(t, "2024-06-10"), ReservationSlot: 18}
	require.NoError(t, NewBookingRepo(db).Create(context.Background(), b))
	require.Equal(t, uint64(3), b.ID)
}

func TestBookingListByDate(t *testing.T) {
	db, mock, close := setupMock(t, "pgx")
	defer close()

	d := day(t, "2024-06-10")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, reservation_date, reservation_slot FROM bookings WHERE reservation_date = $1 ORDER BY reservation_slot, id")).
		WithArgs("2024-06-10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "reservation_date", "reservation_slot"}).
			AddRow(2, "Bo", d, 15).
			AddRow(1, "Ann", d, 18))

	got, err := NewBookingRepo(db).ListByDate(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 15, got[0].ReservationSlot)
	require.Equal(t, "2024-06-10", got[1].DateString())
}

func TestBookingListBySlotAndAll(t *testing.T) {
	db, mock, close := setupMock(t, "mysql")
	defer close()

	d := day(t, "2024-06-10")
	cols := []string{"id", "first_name", "reservation_date", "reservation_slot"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, reservation_date, reservation_slot FROM bookings WHERE reservation_date = ? AND reservation_slot = ? ORDER BY id")).
		WithArgs("2024-06-10", 18).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "Ann", d, 18))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, reservation_date, reservation_slot FROM bookings ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewBookingRepo(db)
	bySlot, err := repo.ListBySlot(context.Background(), d, 18)
	require.NoError(t, err)
	require.Len(t, bySlot, 1)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)
}

func TestMenuGetByID(t *testing.T) {
	db, mock, close := setupMock(t, "mysql")
	defer close()

	q := regexp.QuoteMeta("SELECT id, name, price, menu_item_description FROM menu_items WHERE id = ?")
	mock.ExpectQuery(q).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "menu_item_description"}).AddRow(4, "Greek salad", "12.50", "Feta and olives"))
	mock.ExpectQuery(q).WithArgs(99).WillReturnError(sql.ErrNoRows)

	repo := NewMenuRepo(db)
	item, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, "Greek salad", item.Name)
	require.InDelta(t, 12.5, item.Price, 0.0001)

	_, err = repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMenuCreateAndList(t *testing.T) {
	db, mock, close := setupMock(t, "pgx")
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO menu_items (name, price, menu_item_description) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs("Soup", 6.5, "Daily soup").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price, menu_item_description FROM menu_items ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "menu_item_description"}).AddRow(1, "Soup", 6.5, "Daily soup"))

	repo := NewMenuRepo(db)
	item := &model.MenuItem{Name: "Soup", Price: 6.5, Description: "Daily soup"}
	require.NoError(t, repo.Create(context.Background(), item))
	require.Equal(t, uint64(1), item.ID)

	items, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.MenuItem{*item}, items)
}
