// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies storage errors into application errors so HTTP
// handlers never leak driver details.
package dberr

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/sakura/internal/platform/apperr"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

// Wrap maps a storage error to an [apperr.AppError]. Missing keys become 404
// for the given resource; everything else is an opaque 500.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return apperr.Internal(err)
}
