// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
)

// Copy duplicates every key under prefix from one backend into another and
// returns how many entries were written. Keys already present in the target
// are overwritten.
func Copy(ctx context.Context, from, to Storage, prefix string) (int, error) {
	keys, err := from.Keys(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("storage_copy_failed: list: %w", err)
	}

	copied := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return copied, err
		}

		value, err := from.Get(ctx, key)
		if err != nil {
			return copied, fmt.Errorf("storage_copy_failed: read %s: %w", key, err)
		}

		if err := to.Set(ctx, key, value); err != nil {
			return copied, fmt.Errorf("storage_copy_failed: write %s: %w", key, err)
		}
		copied++
	}

	return copied, nil
}
