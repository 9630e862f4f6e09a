package simplecms

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BlogPost is a published or draft article.
//
// ReadTime, Excerpt and Author are derived from Content and the creating
// identity when the post is created. Updates leave them as they were.
type BlogPost struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Image       string    `json:"image,omitempty"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category,omitempty"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadTime    int       `json:"readTime"`
	Author      string    `json:"author"`
	Excerpt     string    `json:"excerpt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MarshalJSON keeps tags as [] instead of null for posts created without tags.
func (b BlogPost) MarshalJSON() ([]byte, error) {
	type alias BlogPost
	a := alias(b)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return json.Marshal(a)
}

// FillDefaults assigns a new id and stamps zero timestamps with now.
func (b *BlogPost) FillDefaults(now time.Time) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	if b.PublishedAt.IsZero() {
		b.PublishedAt = b.CreatedAt
	}
}

// Project is a portfolio entry.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"techStack"`
	GithubLink  string    `json:"githubLink,omitempty"`
	LiveDemo    string    `json:"liveDemo,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MarshalJSON keeps techStack as [] instead of null.
func (p Project) MarshalJSON() ([]byte, error) {
	type alias Project
	a := alias(p)
	if a.TechStack == nil {
		a.TechStack = []string{}
	}
	return json.Marshal(a)
}

// FillDefaults assigns a new id and stamps zero timestamps with now.
func (p *Project) FillDefaults(now time.Time) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
}

// Identity is the caller admitted by the access gate.
type Identity struct {
	Subject string `json:"sub"`
	Name    string `json:"name,omitempty"`
	Admin   bool   `json:"admin"`
}

// Attachment is a fully buffered uploaded file.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// BlogFilter narrows ListBlogs results. Nil fields match everything.
type BlogFilter struct {
	Published *bool
}

// BlogPatch holds the fields an update writes. Nil pointers leave the stored
// value untouched.
type BlogPatch struct {
	Title     *string
	Content   *string
	Tags      *[]string
	Category  *string
	Published *bool
	Image     *string
	UpdatedAt time.Time
}

// IsEmpty reports whether the patch changes no user-visible field.
func (p BlogPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil &&
		p.Category == nil && p.Published == nil && p.Image == nil
}

// Apply merges the patch into b.
func (p BlogPatch) Apply(b *BlogPost) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.Tags != nil {
		b.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Published != nil {
		b.Published = *p.Published
	}
	if p.Image != nil {
		b.Image = *p.Image
	}
	if !p.UpdatedAt.IsZero() {
		b.UpdatedAt = p.UpdatedAt
	}
}

// ProjectPatch holds the fields a project update writes.
type ProjectPatch struct {
	Title       *string
	Description *string
	TechStack   *[]string
	GithubLink  *string
	LiveDemo    *string
	ImageURL    *string
	UpdatedAt   time.Time
}

// IsEmpty reports whether the patch changes no user-visible field.
func (pp ProjectPatch) IsEmpty() bool {
	return pp.Title == nil && pp.Description == nil && pp.TechStack == nil &&
		pp.GithubLink == nil && pp.LiveDemo == nil && pp.ImageURL == nil
}

// Apply merges the patch into p.
func (pp ProjectPatch) Apply(p *Project) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.TechStack != nil {
		p.TechStack = append([]string{}, (*pp.TechStack)...)
	}
	if pp.GithubLink != nil {
		p.GithubLink = *pp.GithubLink
	}
	if pp.LiveDemo != nil {
		p.LiveDemo = *pp.LiveDemo
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if !pp.UpdatedAt.IsZero() {
		p.UpdatedAt = pp.UpdatedAt
	}
}
