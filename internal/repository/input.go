// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// Field limits.
const (
	MaxCategoryName        = 100
	MaxCategoryDescription = 500
	MaxTagName             = 50
	MaxBatchTags           = 10
	MaxArticleTitle        = 300
	MaxArticleSummary      = 1000
	MaxIntervieweeName     = 200
)

// DateLayout is the wire format of interview and display dates.
const DateLayout = "2006-01-02"

// CategoryInput carries the editable fields of a category, for both create
// and update.
type CategoryInput struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

func (in *CategoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = trimOptional(in.Description)
}

// Validate checks field presence and length.
func (in CategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, MaxCategoryName)),
		validation.Field(&in.Description, validation.RuneLength(0, MaxCategoryDescription)),
	)
}

// TagInput carries a tag name.
type TagInput struct {
	Name string `json:"name"`
}

// Validate checks the name is 1 to 50 characters.
func (in TagInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, MaxTagName)),
	)
}

// ArticleInput carries every editable article field. Update replaces all
// of them; Tags is the exception, where nil means "leave unchanged" and an
// empty list clears the tag set.
type ArticleInput struct {
	Title                 string               `json:"title"`
	Slug                  string               `json:"slug"`
	Summary               *string              `json:"summary"`
	Content               string               `json:"content"`
	ContentMarkdown       *string              `json:"content_markdown"`
	CoverImageURL         *string              `json:"cover_image_url"`
	FeaturedImagePosition models.ImagePosition `json:"featured_image_position"`
	CategoryID            *uuid.UUID           `json:"category_id"`
	IsFeatured            bool                 `json:"is_featured"`
	IsPublished           bool                 `json:"is_published"`
	IntervieweeName       *string              `json:"interviewee_name"`
	InterviewDate         *string              `json:"interview_date"`
	PublishedDate         *string              `json:"published_date"`
	Tags                  *[]uuid.UUID         `json:"tags"`
}

func (in *ArticleInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Summary = trimOptional(in.Summary)
	in.CoverImageURL = trimOptional(in.CoverImageURL)
	in.IntervieweeName = trimOptional(in.IntervieweeName)
	in.InterviewDate = trimOptional(in.InterviewDate)
	in.PublishedDate = trimOptional(in.PublishedDate)
	if in.FeaturedImagePosition == "" {
		in.FeaturedImagePosition = models.ImageCenter
	}
}

// Validate checks lengths, the image position, URLs and dates.
func (in ArticleInput) Validate() error {
	positions := make([]any, len(models.ImagePositions))
	for i, p := range models.ImagePositions {
		positions[i] = p
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, MaxArticleTitle)),
		validation.Field(&in.Slug, validation.RuneLength(0, MaxArticleTitle)),
		validation.Field(&in.Summary, validation.RuneLength(0, MaxArticleSummary)),
		validation.Field(&in.CoverImageURL, is.URL),
		validation.Field(&in.FeaturedImagePosition, validation.In(positions...)),
		validation.Field(&in.IntervieweeName, validation.RuneLength(0, MaxIntervieweeName)),
		validation.Field(&in.InterviewDate, validation.Date(DateLayout)),
		validation.Field(&in.PublishedDate, validation.Date(DateLayout)),
	)
}

// trimOptional trims s and maps blank strings to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// parseDate parses an already validated optional date.
func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
