// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed/default_comics.yaml
var defaultComicsYAML []byte

// seedFile mirrors seed/default_comics.yaml. Timestamps stay strings so a typo
// fails loudly instead of decoding to the zero time.
type seedFile struct {
	Comics []struct {
		ID          string   `yaml:"id"`
		Title       string   `yaml:"title"`
		Author      string   `yaml:"author"`
		Description string   `yaml:"description"`
		Genres      []string `yaml:"genres"`
		Status      Status   `yaml:"status"`
		CoverImage  string   `yaml:"coverImage"`
		Rating      float64  `yaml:"rating"`
		Views       int64    `yaml:"views"`
		CreatedAt   string   `yaml:"createdAt"`
		Featured    bool     `yaml:"featured"`
		Trending    bool     `yaml:"trending"`
		Tags        []string `yaml:"tags"`
		Chapters    []struct {
			ID          string   `yaml:"id"`
			Number      string   `yaml:"number"`
			Title       string   `yaml:"title"`
			Pages       []string `yaml:"pages"`
			PublishedAt string   `yaml:"publishedAt"`
		} `yaml:"chapters"`
	} `yaml:"comics"`
}

// DefaultComics decodes the built-in catalogue. Each call returns fresh values.
func DefaultComics() ([]*Comic, error) {
	return ParseSeed(defaultComicsYAML)
}

// ParseSeed decodes a catalogue in the seed YAML layout. sakuractl uses it to
// import a custom dataset.
func ParseSeed(raw []byte) ([]*Comic, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("comic_seed_decode_failed: %w", err)
	}

	comics := make([]*Comic, 0, len(file.Comics))
	for _, entry := range file.Comics {
		createdAt, err := time.Parse(time.RFC3339, entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("comic_seed_decode_failed: %s createdAt: %w", entry.ID, err)
		}

		comic := &Comic{
			ID:          entry.ID,
			Title:       entry.Title,
			Author:      entry.Author,
			Description: entry.Description,
			Genres:      entry.Genres,
			Status:      entry.Status,
			CoverImage:  entry.CoverImage,
			Rating:      entry.Rating,
			Views:       entry.Views,
			CreatedAt:   createdAt,
			Featured:    entry.Featured,
			Trending:    entry.Trending,
			Tags:        entry.Tags,
			Chapters:    make([]*Chapter, 0, len(entry.Chapters)),
		}

		for _, ch := range entry.Chapters {
			publishedAt, err := time.Parse(time.RFC3339, ch.PublishedAt)
			if err != nil {
				return nil, fmt.Errorf("comic_seed_decode_failed: %s/%s publishedAt: %w", entry.ID, ch.ID, err)
			}
			pages := ch.Pages
			if pages == nil {
				pages = []string{}
			}
			comic.Chapters = append(comic.Chapters, &Chapter{
				ID:          ch.ID,
				ComicID:     entry.ID,
				Number:      ch.Number,
				Title:       ch.Title,
				Pages:       pages,
				PublishedAt: publishedAt,
			})
		}

		comics = append(comics, comic)
	}

	return comics, nil
}
