package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title   string   `json:"title" validate:"required,max=300"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type DocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type DocumentSearchResult struct {
	DocumentId string  `json:"document_id"`
	Title      string  `json:"title"`
	Citation   string  `json:"citation"`
	Snippet    string  `json:"snippet"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}
