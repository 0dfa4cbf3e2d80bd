package book

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// orderClauses is the only source of ORDER BY text; sort keys never reach
// the query as user input.
var orderClauses = map[SortKey]string{
	SortByReadDate: "read_date DESC, id DESC",
	SortByRating:   "rating DESC, id DESC",
	SortByTitle:    "title ASC, id ASC",
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	const sql = `
		INSERT INTO books (title, author, cover_url, rating, read_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, sql,
		b.Title, b.Author, b.CoverURL, b.Rating, b.ReadDate,
	).Scan(&b.ID)
}

func (r *PostgresRepo) List(ctx context.Context, sort SortKey) ([]Book, error) {
	order, ok := orderClauses[sort]
	if !ok {
		order = orderClauses[SortByReadDate]
	}

	query := fmt.Sprintf(`
		SELECT id, title, author, cover_url, rating, read_date
		FROM books
		ORDER BY %s`, order)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, scanBook)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

func scanBook(row pgx.CollectableRow) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.CoverURL, &b.Rating, &b.ReadDate)
	return b, err
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const sql = `
		UPDATE books SET
			title = $1,
			author = $2,
			cover_url = $3,
			rating = $4,
			read_date = $5
		WHERE id = $6`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql,
		b.Title, b.Author, b.CoverURL, b.Rating, b.ReadDate, b.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
