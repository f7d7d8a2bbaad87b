package domain

// Catalog records as the content store returns them. Numeric IDs identify
// records within a collection; DocumentID is the handle used for updates.

type Image struct {
	ID              int    `json:"id"`
	DocumentID      string `json:"documentId"`
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
}

type Category struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

type Product struct {
	ID          int       `json:"id"`
	DocumentID  string    `json:"documentId"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency,omitempty"`
	Image       *Image    `json:"image,omitempty"`
	Category    *Category `json:"category,omitempty"`
}

type Hero struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ButtonText string `json:"buttonText"`
	ButtonLink string `json:"buttonLink"`
	Image      *Image `json:"image,omitempty"`
}

type Feature struct {
	ID          int    `json:"id"`
	DocumentID  string `json:"documentId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
