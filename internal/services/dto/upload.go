package dto

import "mime/multipart"

// UploadRequest - файл из multipart поля "file"
type UploadRequest struct {
	UserID string // пусто для анонимной загрузки
	File   *multipart.FileHeader
}

// UploadResponse - ответ POST /uploads/upload
type UploadResponse struct {
	Success          bool   `json:"success"`
	OriginalFilename string `json:"original_filename"`
	Filename         string `json:"filename"`
	ID               string `json:"id"`
	URL              string `json:"url"`
	ThumbnailURL     string `json:"thumbnail_url,omitempty"`
	Message          string `json:"message"`
}
