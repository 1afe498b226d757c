// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds table and column names shared by the SQL backends.
package schema

// KVEntryTable represents the 'kv_entries' table
type KVEntryTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedAt string
}

// KVEntry is the schema definition for kv_entries
var KVEntry = KVEntryTable{
	Table:     "kv_entries",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updated_at",
}

func (t KVEntryTable) Columns() []string {
	return []string{t.Key, t.Value, t.UpdatedAt}
}
