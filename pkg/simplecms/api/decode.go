package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

const imageField = "image"

// form is a decoded multipart body. Keys present in the form count as
// supplied even when their value is empty.
type form struct {
	values map[string][]string
	image  *simplecms.Attachment
}

func (f *form) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f *form) get(key string) string {
	if v := f.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *form) optString(key string) simplecms.Optional[string] {
	if !f.has(key) {
		return simplecms.Optional[string]{}
	}
	return simplecms.Some(f.get(key))
}

// list reads repeated values, splitting each on commas.
func (f *form) list(key string) []string {
	out := []string{}
	for _, v := range f.values[key] {
		out = append(out, simplecms.SplitTechStack(v)...)
	}
	return out
}

func (f *form) optBool(key string) (simplecms.Optional[bool], error) {
	if !f.has(key) || strings.TrimSpace(f.get(key)) == "" {
		return simplecms.Optional[bool]{}, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(f.get(key)))
	if err != nil {
		return simplecms.Optional[bool]{}, &simplecms.ValidationError{
			Message: fmt.Sprintf("Invalid value for %s", key),
			Err:     err,
		}
	}
	return simplecms.Some(b), nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseForm buffers a multipart body, including the optional image part
func parseForm(r *http.Request, maxMemory int64) (*form, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, malformed(err)
	}
	f := &form{values: r.MultipartForm.Value}

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return f, nil
	}
	if err != nil {
		return nil, malformed(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, malformed(err)
	}
	if len(data) > 0 {
		f.image = &simplecms.Attachment{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}
	return f, nil
}

// decodeJSON decodes a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return malformed(err)
	}
	// Exactly one JSON value is allowed.
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON body")
		}
		return malformed(err)
	}
	return nil
}

// malformed keeps body-size errors intact and turns the rest into a 400
func malformed(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return &simplecms.ValidationError{Message: "Malformed request body", Err: err}
}

func decodeCreateBlog(r *http.Request, maxMemory int64) (simplecms.CreateBlogRequest, error) {
	var req simplecms.CreateBlogRequest
	if !isMultipart(r) {
		return req, decodeJSON(r, &req)
	}

	f, err := parseForm(r, maxMemory)
	if err != nil {
		return req, err
	}
	req.Title = f.get("title")
	req.Content = f.get("content")
	req.Category = f.get("category")
	req.Tags = f.list("tags")
	req.Image = f.image
	req.Published, err = f.optBool("published")
	return req, err
}

func decodeUpdateBlog(r *http.Request, maxMemory int64) (simplecms.UpdateBlogRequest, error) {
	var req simplecms.UpdateBlogRequest
	if !isMultipart(r) {
		return req, decodeJSON(r, &req)
	}

	f, err := parseForm(r, maxMemory)
	if err != nil {
		return req, err
	}
	req.Title = f.optString("title")
	req.Content = f.optString("content")
	req.Category = f.optString("category")
	if f.has("tags") {
		req.Tags = simplecms.Some(f.list("tags"))
	}
	req.Image = f.image
	req.Published, err = f.optBool("published")
	return req, err
}

func decodeCreateProject(r *http.Request, maxMemory int64) (simplecms.CreateProjectRequest, error) {
	var req simplecms.CreateProjectRequest
	if !isMultipart(r) {
		return req, decodeJSON(r, &req)
	}

	f, err := parseForm(r, maxMemory)
	if err != nil {
		return req, err
	}
	req.Title = f.get("title")
	req.Description = f.get("description")
	req.TechStack = strings.Join(f.values["techStack"], ",")
	req.GithubLink = f.get("githubLink")
	req.LiveDemo = f.get("liveDemo")
	req.Image = f.image
	return req, nil
}

func decodeUpdateProject(r *http.Request, maxMemory int64) (simplecms.UpdateProjectRequest, error) {
	var req simplecms.UpdateProjectRequest
	if !isMultipart(r) {
		return req, decodeJSON(r, &req)
	}

	f, err := parseForm(r, maxMemory)
	if err != nil {
		return req, err
	}
	req.Title = f.optString("title")
	req.Description = f.optString("description")
	if f.has("techStack") {
		req.TechStack = simplecms.Some(strings.Join(f.values["techStack"], ","))
	}
	req.GithubLink = f.optString("githubLink")
	req.LiveDemo = f.optString("liveDemo")
	req.Image = f.image
	return req, nil
}
