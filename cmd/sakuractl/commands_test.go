// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/platform/constants"
	"github.com/taibuivan/sakura/internal/platform/storage"
)

// useFileBackend points the environment at a fresh file backend.
func useFileBackend(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("DATA_DIR", filepath.Join(dir, "storage"))
	t.Setenv("SESSION_SECRET", "cli-secret")
	t.Setenv("BCRYPT_COST", "4")
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	err := newRootCommand(&out).Run(context.Background(), append([]string{"sakuractl"}, args...))
	require.NoError(t, err)
	return out.String()
}

/*
TestSeed_CustomDataset verifies a YAML dataset replaces the catalogue.
*/
func TestSeed_CustomDataset(t *testing.T) {
	dir := useFileBackend(t)

	dataset := filepath.Join(dir, "comics.yaml")
	require.NoError(t, os.WriteFile(dataset, []byte(`
comics:
  - id: solo-1
    title: Solo Leveling
    author: Chugong
    status: Completed
    createdAt: "2018-03-04T00:00:00Z"
`), 0o600))

	assert.Equal(t, "seeded 1 comics\n", run(t, "seed", "--file", dataset))
	assert.Contains(t, run(t, "comics", "list"), "Solo Leveling")

	assert.Equal(t, "seeded 5 comics\n", run(t, "seed"))
	assert.NotContains(t, run(t, "comics", "list"), "Solo Leveling")
}

/*
TestUsers_EmptyBackend verifies the user commands on a fresh backend.
*/
func TestUsers_EmptyBackend(t *testing.T) {
	useFileBackend(t)

	assert.Equal(t, "total users: 0\nnew in last 7 days: 0\n", run(t, "users", "stats", "--days", "7"))
	assert.Equal(t, "[]\n", run(t, "users", "list", "--json"))
}

/*
TestMigrate_FileToSQLite verifies every entry reaches the target backend.
*/
func TestMigrate_FileToSQLite(t *testing.T) {
	dir := useFileBackend(t)
	run(t, "seed")

	target := filepath.Join(dir, "sakura.db")
	output := run(t, "migrate", "--to", "sqlite", "--sqlite-path", target)
	assert.Contains(t, output, "to sqlite")

	migrated, err := storage.NewSQLite(target)
	require.NoError(t, err)
	defer migrated.Close()

	raw, err := migrated.Get(context.Background(), constants.KeyComics)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "popular-1")
}

/*
TestMigrate_UnknownTarget verifies the target backend is validated.
*/
func TestMigrate_UnknownTarget(t *testing.T) {
	useFileBackend(t)

	err := newRootCommand(&bytes.Buffer{}).Run(context.Background(), []string{"sakuractl", "migrate", "--to", "floppy"})
	assert.ErrorContains(t, err, "unknown STORAGE_BACKEND")
}
