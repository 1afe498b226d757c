// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import "context"

// # Catalogue Data Access

// Repository persists the whole catalogue as one document.
type Repository interface {

	/*
		Load returns the persisted catalogue in stored order.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Comic: Persisted comics, duplicates included
		  - error: ErrResetToDefaults (wrapped) when the data is missing, from
		    another version or unreadable; any other error is a backend failure
	*/
	Load(context context.Context) ([]*Comic, error)

	/*
		Save overwrites the persisted catalogue and stamps the schema version.

		Parameters:
		  - context: context.Context
		  - comics: []*Comic (Full collection)

		Returns:
		  - error: Encoding or backend failures
	*/
	Save(context context.Context, comics []*Comic) error
}
