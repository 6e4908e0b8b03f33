// Package repositories handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist, or update users,
// posts, tags and their associations. Write repositories run their statements
// on the transaction carried by the context when there is one.
package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// TxGetter returns the transaction carried by ctx, or nil.
type TxGetter func(ctx context.Context) *sqlx.Tx

// executor picks the transaction from ctx when present, the pool otherwise.
func executor(ctx context.Context, db *sqlx.DB, txGetter TxGetter) sqlx.ExtContext {
	var ex sqlx.ExtContext = db
	if txGetter != nil {
		if tx := txGetter(ctx); tx != nil {
			ex = tx
		}
	}
	return ex
}

// distinct returns names without duplicates, keeping first-seen order.
func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
