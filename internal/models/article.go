// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ImagePosition is the CSS object-position used when cropping a cover image.
type ImagePosition string

const (
	ImageCenter ImagePosition = "center"
	ImageTop    ImagePosition = "top"
	ImageBottom ImagePosition = "bottom"
	ImageLeft   ImagePosition = "left"
	ImageRight  ImagePosition = "right"
)

// ImagePositions lists every accepted ImagePosition.
var ImagePositions = []ImagePosition{ImageCenter, ImageTop, ImageBottom, ImageLeft, ImageRight}

// Valid reports whether p is one of the known positions.
func (p ImagePosition) Valid() bool {
	for _, known := range ImagePositions {
		if p == known {
			return true
		}
	}
	return false
}

// Article is a piece of journalism: news, feature or interview.
type Article struct {
	ID                    uuid.UUID     `json:"id"`
	Title                 string        `json:"title"`
	Slug                  string        `json:"slug"`
	Summary               *string       `json:"summary,omitempty"`
	Content               string        `json:"content"`
	CoverImageURL         *string       `json:"cover_image_url,omitempty"`
	FeaturedImagePosition ImagePosition `json:"featured_image_position"`
	CategoryID            *uuid.UUID    `json:"category_id"`
	IsFeatured            bool          `json:"is_featured"`
	IsPublished           bool          `json:"is_published"`
	PublishedAt           *time.Time    `json:"published_at"`
	AuthorID              *uuid.UUID    `json:"author_id,omitempty"`
	IntervieweeName       *string       `json:"interviewee_name,omitempty"`
	InterviewDate         *time.Time    `json:"interview_date,omitempty"`
	PublishedDate         *time.Time    `json:"published_date,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`

	// Virtual fields populated by store reads.
	CategoryName *string `json:"category_name,omitempty"`
	CategorySlug *string `json:"category_slug,omitempty"`
	AuthorName   *string `json:"author_name,omitempty"`
	Tags         []Tag   `json:"tags"`
}

// IsInterview reports whether the article carries interview metadata.
func (a *Article) IsInterview() bool {
	return a.IntervieweeName != nil && *a.IntervieweeName != ""
}

// TagIDs returns the IDs of the article's loaded tags in order.
func (a *Article) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(a.Tags))
	for _, t := range a.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// ArticleFilter narrows article listings. Zero values mean no restriction.
type ArticleFilter struct {
	PublishedOnly bool
	FeaturedOnly  bool
	CategorySlug  string
	TagSlug       string
	CategoryID    *uuid.UUID
	ExcludeID     *uuid.UUID
	Limit         int
	Offset        int
}
