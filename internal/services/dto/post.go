package dto

type CreatePostRequest struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	ImageIDs []string `json:"imageIds" validate:"required,min=1,dive,required"`
}

type UpdatePostRequest struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	ImageIDs []string `json:"imageIds" validate:"omitempty,dive,required"`
}

// LikeResult - состояние лайков после переключения
type LikeResult struct {
	Liked      bool     `json:"liked"`
	Likes      []string `json:"likes"`
	LikesCount int      `json:"likesCount"`
}
