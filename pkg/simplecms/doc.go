// Package simplecms provides the publishing core of a small blog and
// portfolio backend with pluggable repository and blob storage backends.
//
// It exposes a single Service interface that creates, reads, updates and
// deletes blog posts and projects. Attached images are handed to a BlobStore
// by the Uploader before a document is written, so a failed upload never
// leaves a half-saved document behind. Repositories (memory, Postgres) and
// blob stores (memory, filesystem, S3) are provided under subpackages; the
// HTTP surface and access gate live in the api subpackage.
//
// # Derived Fields
//
// ReadTime, Excerpt and Author are computed from the content and the creating
// identity once, at creation. Updates that change Content leave them as they
// were.
//
// # Partial Updates
//
// Update requests use Optional to tell an absent field from a supplied zero
// value. Text fields are applied only when supplied and non-empty; Published
// is applied whenever supplied, false included.
package simplecms
