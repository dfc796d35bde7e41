// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package transform normalizes raw AniList media into source records the
// deduplicator consumes. Cleaning covers title selection, HTML removal
// from descriptions, genre canonicalization, and relevance filtering of
// tags, studios, and staff.
package transform

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/tomtom215/anisette/internal/anilist"
	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/models"
)

// ErrMissingField marks a record that cannot enter the catalog because a
// required field (id, title) is absent. The pipeline skips and counts
// these rather than failing the run.
var ErrMissingField = errors.New("missing required field")

const sourceName = "anilist"

// minTagRank is the relevance floor for keeping a tag. AniList ranks run
// 0-100; below ~60 tags get too generic to describe the show.
const minTagRank = 60

// maxStaffCredits caps staff per record to the key creators.
const maxStaffCredits = 5

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// genreAliases folds casing and spelling variants of the same genre.
var genreAliases = map[string]string{
	"Sci-fi":        "Sci-Fi",
	"SciFi":         "Sci-Fi",
	"Slice Of Life": "Slice of Life",
	"Slice-of-Life": "Slice of Life",
}

// Transformer converts AniList media into source records. It is
// stateless and safe for concurrent use.
type Transformer struct{}

// New creates a Transformer.
func New() *Transformer {
	return &Transformer{}
}

// Transform normalizes one media entry. Records without an id or any
// title variant return ErrMissingField.
func (t *Transformer) Transform(raw anilist.Media) (*models.SourceRecord, error) {
	if raw.ID <= 0 {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}

	title := pickTitle(raw.Title)
	if title == "" {
		return nil, fmt.Errorf("media %d: %w: title", raw.ID, ErrMissingField)
	}

	return &models.SourceRecord{
		Source:         sourceName,
		SourceID:       raw.ID,
		Title:          title,
		Popularity:     raw.Popularity,
		Genres:         normalizeGenres(raw.Genres),
		Tags:           relevantTags(raw.Tags),
		Studios:        animationStudios(raw.Studios.Nodes),
		Staff:          keyStaff(raw.Staff.Edges),
		Description:    CleanText(raw.Description),
		SourceMaterial: raw.Source,
		AverageScore:   raw.AverageScore,
		Format:         raw.Format,
		Status:         raw.Status,
		Episodes:       raw.Episodes,
		Season:         raw.Season,
		SeasonYear:     raw.SeasonYear,
	}, nil
}

// TransformAll normalizes a fetched batch, skipping malformed entries
// with a warning. Returns the clean records and the skip count.
func (t *Transformer) TransformAll(media []anilist.Media) ([]models.SourceRecord, int) {
	records := make([]models.SourceRecord, 0, len(media))
	skipped := 0

	for _, raw := range media {
		record, err := t.Transform(raw)
		if err != nil {
			skipped++
			logging.Warn().
				Err(err).
				Int("media_id", raw.ID).
				Msg("Skipping malformed media record")
			continue
		}
		records = append(records, *record)
	}

	if skipped > 0 {
		logging.Info().
			Int("records", len(records)).
			Int("skipped", skipped).
			Msg("Transform completed with skips")
	}

	return records, skipped
}

// pickTitle selects the display title, preferring romaji, then english,
// then native. Deduplication matches on romanized titles, so romaji
// leads even when an english title exists.
func pickTitle(title anilist.MediaTitle) string {
	for _, candidate := range []string{title.Romaji, title.English, title.Native} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// CleanText strips HTML tags, decodes entities, and collapses runs of
// whitespace. AniList descriptions arrive with markup even when asHtml
// is false.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	cleaned := htmlTagPattern.ReplaceAllString(text, "")
	cleaned = html.UnescapeString(cleaned)
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// normalizeGenres trims, canonicalizes known variants, and drops empties
// and duplicates while preserving upstream order.
func normalizeGenres(genres []string) []string {
	if len(genres) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(genres))
	seen := make(map[string]bool, len(genres))

	for _, genre := range genres {
		genre = strings.TrimSpace(genre)
		if canonical, ok := genreAliases[genre]; ok {
			genre = canonical
		}
		if genre == "" || seen[genre] {
			continue
		}
		seen[genre] = true
		normalized = append(normalized, genre)
	}

	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

// relevantTags keeps non-spoiler tags above the relevance floor.
func relevantTags(tags []anilist.MediaTag) []models.Tag {
	var kept []models.Tag
	for _, tag := range tags {
		if tag.Rank <= minTagRank || tag.IsMediaSpoiler {
			continue
		}
		name := strings.TrimSpace(tag.Name)
		if name == "" {
			continue
		}
		kept = append(kept, models.Tag{
			Name:     name,
			Rank:     tag.Rank,
			Category: tag.Category,
		})
	}
	return kept
}

// animationStudios keeps production studios, dropping licensors and
// publishers that share the credits list.
func animationStudios(nodes []anilist.StudioNode) []string {
	var studios []string
	for _, node := range nodes {
		if !node.IsAnimationStudio {
			continue
		}
		name := strings.TrimSpace(node.Name)
		if name == "" {
			continue
		}
		studios = append(studios, name)
	}
	return studios
}

// keyStaff keeps the first credits with both a role and a name, capped
// at maxStaffCredits. AniList already orders staff by relevance.
func keyStaff(edges []anilist.StaffEdge) []models.StaffCredit {
	var credits []models.StaffCredit
	for _, edge := range edges {
		role := strings.TrimSpace(edge.Role)
		name := strings.TrimSpace(edge.Node.Name.Full)
		if role == "" || name == "" {
			continue
		}
		credits = append(credits, models.StaffCredit{Role: role, Name: name})
		if len(credits) == maxStaffCredits {
			break
		}
	}
	return credits
}
