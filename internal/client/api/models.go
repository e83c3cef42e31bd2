// Package api is the typed HTTP client for the SYUDA backend. The session
// state machine and any non-browser tooling talk to the server through it.
package api

// Profile mirrors the profile JSON the server exchanges. The server never
// includes passwordHash in responses; the client includes it in saves made
// during profile setup.
type Profile struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Description  string `json:"description"`
	Avatar       string `json:"avatar,omitempty"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Publication mirrors the publication JSON.
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

// UploadedImage is the result of an image upload.
type UploadedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
