// Package publications owns the collection of user-generated posts:
// creation, listing newest-first, and deletion by id.
package publications

// maxDescriptionLength caps the optional publication description.
const maxDescriptionLength = 300

// Publication is a picture+text post. IDs are caller-supplied; the client
// uses a millisecond timestamp string. AuthorName and AuthorUsername are
// denormalized display copies taken from the owner's profile at creation
// time.
type Publication struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ImageURLs      []string `json:"imageUrls"`
	ItemCount      int      `json:"itemCount"`
	UserID         string   `json:"userId,omitempty"`
	AuthorName     string   `json:"authorName,omitempty"`
	AuthorUsername string   `json:"authorUsername,omitempty"`
	CreatedAt      int64    `json:"createdAt,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// DeleteRequest is the body of POST /publications/delete.
type DeleteRequest struct {
	PublicationID string `json:"publicationId"`
}
