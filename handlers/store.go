// ABOUTME: Record store contract the gateway handlers depend on
// ABOUTME: Satisfied by *airtable.Client; tests substitute an in-memory store
package handlers

import (
	"context"

	"github.com/harperreed/reicrm/airtable"
)

type RecordStore interface {
	List(ctx context.Context, table string, query airtable.ListQuery, out any) error
	Create(ctx context.Context, table string, fields any, out any) error
	Update(ctx context.Context, table, id string, fields any, out any) error
}

var _ RecordStore = (*airtable.Client)(nil)
