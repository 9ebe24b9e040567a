package googlebooks

import (
	"bytes"
	"encoding/json"
)

// Raw API response types (internal)

type volumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string      `json:"id"`
	VolumeInfo volumeInfo  `json:"volumeInfo"`
	SearchInfo *searchInfo `json:"searchInfo"`
}

type volumeInfo struct {
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Authors       []string    `json:"authors"`
	Publisher     string      `json:"publisher"`
	PublishedDate string      `json:"publishedDate"`
	Description   string      `json:"description"`
	PageCount     *int        `json:"pageCount"`
	Categories    []string    `json:"categories"`
	ImageLinks    *imageLinks `json:"imageLinks"`
	Language      string      `json:"language"`
	PreviewLink   string      `json:"previewLink"`
	InfoLink      string      `json:"infoLink"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

type searchInfo struct {
	TextSnippet string `json:"textSnippet"`
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(body []byte, v any) error {
	return json.NewDecoder(bytes.NewReader(body)).Decode(v)
}
