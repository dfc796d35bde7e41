// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package anilist

import "fmt"

// Media is one anime entry as returned by the AniList GraphQL API.
// Field tags follow the API's camelCase schema; absent values decode to
// zero values because AniList returns JSON null for unset fields.
type Media struct {
	ID           int              `json:"id"`
	Title        MediaTitle       `json:"title"`
	Description  string           `json:"description"`
	Episodes     int              `json:"episodes"`
	AverageScore float64          `json:"averageScore"`
	Popularity   int              `json:"popularity"`
	Genres       []string         `json:"genres"`
	Tags         []MediaTag       `json:"tags"`
	Format       string           `json:"format"`
	Source       string           `json:"source"`
	Status       string           `json:"status"`
	Season       string           `json:"season"`
	SeasonYear   int              `json:"seasonYear"`
	Studios      StudioConnection `json:"studios"`
	Staff        StaffConnection  `json:"staff"`
}

// MediaTitle carries the three title variants AniList tracks per entry.
type MediaTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// MediaTag is a weighted descriptor with a 0-100 relevance rank.
type MediaTag struct {
	Name           string `json:"name"`
	Rank           int    `json:"rank"`
	Category       string `json:"category"`
	IsMediaSpoiler bool   `json:"isMediaSpoiler"`
}

// StudioConnection wraps the studios node list.
type StudioConnection struct {
	Nodes []StudioNode `json:"nodes"`
}

// StudioNode is one studio credit. IsAnimationStudio distinguishes
// production studios from licensors and publishers.
type StudioNode struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	IsAnimationStudio bool   `json:"isAnimationStudio"`
}

// StaffConnection wraps the staff edge list.
type StaffConnection struct {
	Edges []StaffEdge `json:"edges"`
}

// StaffEdge is one staff credit with the person's role on the production.
type StaffEdge struct {
	Role string    `json:"role"`
	Node StaffNode `json:"node"`
}

// StaffNode is the person behind a staff credit.
type StaffNode struct {
	ID   int       `json:"id"`
	Name StaffName `json:"name"`
}

// StaffName holds the person's display name.
type StaffName struct {
	Full string `json:"full"`
}

// PageInfo is AniList's pagination envelope.
type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// Page is one page of the media catalog.
type Page struct {
	PageInfo PageInfo `json:"pageInfo"`
	Media    []Media  `json:"media"`
}

// GraphQLError is an error entry the API returns in the response body.
// AniList reports request-level problems (bad variables, server errors)
// this way with HTTP 200, so the client surfaces them as typed errors.
type GraphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *GraphQLError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("anilist: %s (status %d)", e.Message, e.Status)
	}
	return "anilist: " + e.Message
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type pageResponse struct {
	Data struct {
		Page Page `json:"Page"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}
