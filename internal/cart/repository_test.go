package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "account_id", "variant_id", "quantity", "created_at", "updated_at"})
	for i, id := range ids {
		rows.AddRow(id, "acc-1", "var-"+id, i+1, time.Now(), time.Now())
	}
	return rows
}

func TestRepository_CreateItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	params := AddParams{AccountID: "acc-1", VariantID: "var-1", Quantity: 2}

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "account_id", "variant_id", "quantity", "created_at", "updated_at"}).
			AddRow("ci-1", "acc-1", "var-1", 2, time.Now(), time.Now())

		mock.ExpectQuery("INSERT INTO carts").
			WithArgs(params.AccountID, params.VariantID, params.Quantity).
			WillReturnRows(rows)

		res, err := repo.CreateItem(context.Background(), params)
		assert.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, "ci-1", res.ID)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO carts").
			WillReturnError(errors.New("db error"))

		_, err := repo.CreateItem(context.Background(), params)
		assert.Error(t, err)
	})
}

func TestRepository_GetItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM carts").
		WithArgs("acc-1").
		WillReturnRows(cartRows("a", "b"))

	items, err := repo.GetItems(context.Background(), "acc-1")
	assert.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRepository_UpdateItemQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "account_id", "variant_id", "quantity", "created_at", "updated_at"}).
			AddRow("ci-1", "acc-1", "var-1", 5, time.Now(), time.Now())

		mock.ExpectQuery(`UPDATE carts\s+SET quantity = \$1`).
			WithArgs(5, "ci-1").
			WillReturnRows(rows)

		item, err := repo.UpdateItemQuantity(context.Background(), "ci-1", 5)
		assert.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
	})

	t.Run("RejectsNonPositive", func(t *testing.T) {
		_, err := repo.UpdateItemQuantity(context.Background(), "ci-1", 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestRepository_RemoveItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts").
			WithArgs("acc-1", "var-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RemoveItem(context.Background(), "acc-1", "var-1")
		assert.NoError(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts").
			WithArgs("acc-1", "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RemoveItem(context.Background(), "acc-1", "ghost")
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestRepository_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	// Clearing an already-empty cart is not an error.
	mock.ExpectExec("DELETE FROM carts").
		WithArgs("acc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Clear(context.Background(), "acc-1")
	assert.NoError(t, err)
}

func TestRepository_RemoveItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("NoopOnEmpty", func(t *testing.T) {
		err := repo.RemoveItems(context.Background(), "acc-1", nil)
		assert.NoError(t, err)
	})

	t.Run("DeletesGiven", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM carts").
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.RemoveItems(context.Background(), "acc-1", []string{"var-1", "var-2"})
		assert.NoError(t, err)
	})
}
