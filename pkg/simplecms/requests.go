package simplecms

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const (
	// MaxTitleLength bounds blog and project titles.
	MaxTitleLength = 300

	// MaxLabelLength bounds categories, tags and tech stack entries.
	MaxLabelLength = 100
)

var notBlank = validation.NewStringRuleWithError(
	func(s string) bool { return strings.TrimSpace(s) != "" },
	validation.NewError("validation_not_blank", "cannot be blank"),
)

// CreateBlogRequest contains parameters for creating a blog post.
// Any caller-supplied publishedAt is not part of the request and is ignored.
type CreateBlogRequest struct {
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Tags      []string       `json:"tags"`
	Category  string         `json:"category"`
	Published Optional[bool] `json:"published"`

	// Image is uploaded before the post is persisted when non-nil
	Image *Attachment `json:"-"`
	// Identity is the admitted caller; it provides the author name
	Identity *Identity `json:"-"`
}

// Validate checks required fields.
func (r CreateBlogRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, notBlank, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&r.Content, validation.Required, notBlank),
		validation.Field(&r.Category, validation.RuneLength(0, MaxLabelLength)),
		validation.Field(&r.Tags, validation.Each(validation.RuneLength(0, MaxLabelLength))),
	)
	return newValidationError(err, "Invalid blog input", map[string]string{
		"title":   "Blog title and content are required",
		"content": "Blog title and content are required",
	})
}

// UpdateBlogRequest contains parameters for a partial blog update.
//
// Field policy:
//   - Title, Content, Tags, Category: applied only when supplied and non-empty
//   - Published: applied whenever supplied, including false
//   - Image: applied only when the upload succeeds
//   - ReadTime, Excerpt, Author, PublishedAt: never changed
type UpdateBlogRequest struct {
	ID        uuid.UUID          `json:"-"`
	Title     Optional[string]   `json:"title"`
	Content   Optional[string]   `json:"content"`
	Tags      Optional[[]string] `json:"tags"`
	Category  Optional[string]   `json:"category"`
	Published Optional[bool]     `json:"published"`

	Image *Attachment `json:"-"`
}

// Validate checks supplied values that would be applied.
func (r UpdateBlogRequest) Validate() error {
	err := validation.Errors{
		"title":    validation.Validate(r.Title.Value, validation.RuneLength(0, MaxTitleLength)),
		"category": validation.Validate(r.Category.Value, validation.RuneLength(0, MaxLabelLength)),
		"tags":     validation.Validate(r.Tags.Value, validation.Each(validation.RuneLength(0, MaxLabelLength))),
	}.Filter()
	return newValidationError(err, "Invalid blog input", nil)
}

// Patch converts the request into a BlogPatch following the field policy.
// imageURL is the URL of an image uploaded for this request, if any.
func (r UpdateBlogRequest) Patch(imageURL string) BlogPatch {
	var p BlogPatch
	if r.Title.Set && r.Title.Value != "" {
		p.Title = &r.Title.Value
	}
	if r.Content.Set && r.Content.Value != "" {
		p.Content = &r.Content.Value
	}
	if r.Tags.Set && len(r.Tags.Value) > 0 {
		tags := append([]string(nil), r.Tags.Value...)
		p.Tags = &tags
	}
	if r.Category.Set && r.Category.Value != "" {
		p.Category = &r.Category.Value
	}
	if r.Published.Set {
		published := r.Published.Value
		p.Published = &published
	}
	if imageURL != "" {
		p.Image = &imageURL
	}
	return p
}

// CreateProjectRequest contains parameters for creating a project.
// TechStack is a comma-delimited list.
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TechStack   string `json:"techStack"`
	GithubLink  string `json:"githubLink"`
	LiveDemo    string `json:"liveDemo"`

	Image *Attachment `json:"-"`
}

// Validate checks required fields.
func (r CreateProjectRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, notBlank, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&r.GithubLink, is.URL),
		validation.Field(&r.LiveDemo, is.URL),
	)
	return newValidationError(err, "Invalid project input", map[string]string{
		"title": "Project title is required",
	})
}

// UpdateProjectRequest contains parameters for a partial project update.
// Text fields are applied only when supplied and non-empty; ImageURL only
// when an upload succeeds.
type UpdateProjectRequest struct {
	ID          uuid.UUID        `json:"-"`
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	TechStack   Optional[string] `json:"techStack"`
	GithubLink  Optional[string] `json:"githubLink"`
	LiveDemo    Optional[string] `json:"liveDemo"`

	Image *Attachment `json:"-"`
}

// Validate checks supplied values that would be applied.
func (r UpdateProjectRequest) Validate() error {
	err := validation.Errors{
		"title":      validation.Validate(r.Title.Value, validation.RuneLength(0, MaxTitleLength)),
		"githubLink": validation.Validate(r.GithubLink.Value, is.URL),
		"liveDemo":   validation.Validate(r.LiveDemo.Value, is.URL),
	}.Filter()
	return newValidationError(err, "Invalid project input", nil)
}

// Patch converts the request into a ProjectPatch following the field policy.
func (r UpdateProjectRequest) Patch(imageURL string) ProjectPatch {
	var p ProjectPatch
	if r.Title.Set && r.Title.Value != "" {
		p.Title = &r.Title.Value
	}
	if r.Description.Set && r.Description.Value != "" {
		p.Description = &r.Description.Value
	}
	if r.TechStack.Set && r.TechStack.Value != "" {
		stack := SplitTechStack(r.TechStack.Value)
		p.TechStack = &stack
	}
	if r.GithubLink.Set && r.GithubLink.Value != "" {
		p.GithubLink = &r.GithubLink.Value
	}
	if r.LiveDemo.Set && r.LiveDemo.Value != "" {
		p.LiveDemo = &r.LiveDemo.Value
	}
	if imageURL != "" {
		p.ImageURL = &imageURL
	}
	return p
}

// newValidationError turns ozzo errors into a *ValidationError. The message
// is taken from the first failed field found in messages, else fallback.
func newValidationError(err error, fallback string, messages map[string]string) error {
	if err == nil {
		return nil
	}
	message := fallback
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for _, field := range []string{"title", "content"} {
			if _, failed := fieldErrs[field]; failed {
				if m, ok := messages[field]; ok {
					message = m
					break
				}
			}
		}
	}
	return &ValidationError{Message: message, Err: err}
}
