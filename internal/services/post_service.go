package services

import (
	"context"
	"errors"

	"transport_backend/internal/logger"
	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services/dto"
	"transport_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostService interface {
	ListPosts(ctx context.Context, db *gorm.DB, page dto.PageRequest) (*dto.Page[models.Post], error)
	ListMyPosts(ctx context.Context, db *gorm.DB, userID string, page dto.PageRequest) (*dto.Page[models.Post], error)
	GetPost(ctx context.Context, db *gorm.DB, postID string) (*models.Post, error)
	CreatePost(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, db *gorm.DB, userID, postID string, req *dto.UpdatePostRequest) (*models.Post, error)
	// DeletePost - мягкое удаление поста и удаление его медиа
	DeletePost(ctx context.Context, db *gorm.DB, userID, postID string) error
	ToggleLike(ctx context.Context, db *gorm.DB, userID, postID string) (*dto.LikeResult, error)
}

type postService struct {
	postRepo      repositories.PostRepository
	uploadService UploadService
}

func NewPostService(postRepo repositories.PostRepository, uploadService UploadService) PostService {
	return &postService{
		postRepo:      postRepo,
		uploadService: uploadService,
	}
}

func (s *postService) ListPosts(ctx context.Context, db *gorm.DB, page dto.PageRequest) (*dto.Page[models.Post], error) {
	page = page.Normalize()
	posts, total, err := s.postRepo.FindActive(db.WithContext(ctx), page.Limit, page.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildPage(ctx, db, posts, page, total)
}

func (s *postService) ListMyPosts(ctx context.Context, db *gorm.DB, userID string, page dto.PageRequest) (*dto.Page[models.Post], error) {
	page = page.Normalize()
	posts, total, err := s.postRepo.FindActiveByUser(db.WithContext(ctx), userID, page.Limit, page.Offset())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildPage(ctx, db, posts, page, total)
}

func (s *postService) GetPost(ctx context.Context, db *gorm.DB, postID string) (*models.Post, error) {
	post, err := s.postRepo.FindActiveByID(db.WithContext(ctx), postID)
	if err != nil {
		return nil, mapPostError(err)
	}
	if err := s.attachImages(ctx, db, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) CreatePost(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		ImageIDs: datatypes.JSONSlice[string](req.ImageIDs),
	}
	if err := s.postRepo.Create(db.WithContext(ctx), post); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.attachImages(ctx, db, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) UpdatePost(ctx context.Context, db *gorm.DB, userID, postID string, req *dto.UpdatePostRequest) (*models.Post, error) {
	post, err := s.findOwned(ctx, db, userID, postID)
	if err != nil {
		return nil, err
	}

	// imageIds заменяется целиком, прежние медиа не удаляются
	post.Title = req.Title
	post.Content = req.Content
	post.ImageIDs = datatypes.JSONSlice[string](req.ImageIDs)
	if post.ImageIDs == nil {
		post.ImageIDs = datatypes.JSONSlice[string]{}
	}

	if err := s.postRepo.UpdateContent(db.WithContext(ctx), post); err != nil {
		return nil, mapPostError(err)
	}
	if err := s.attachImages(ctx, db, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, db *gorm.DB, userID, postID string) error {
	post, err := s.findOwned(ctx, db, userID, postID)
	if err != nil {
		return err
	}

	if err := s.postRepo.Deactivate(db.WithContext(ctx), post.ID); err != nil {
		return mapPostError(err)
	}

	if len(post.ImageIDs) > 0 {
		n, err := s.uploadService.DeleteMedia(ctx, db, post.ImageIDs)
		if err != nil {
			logger.CtxWithError(ctx, "failed to clean up post media", err, "post_id", post.ID)
		} else {
			logger.CtxInfo(ctx, "Post media removed", "post_id", post.ID, "count", n)
		}
	}
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, db *gorm.DB, userID, postID string) (*dto.LikeResult, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	post, err := s.postRepo.FindActiveByID(tx, postID)
	if err != nil {
		return nil, mapPostError(err)
	}

	likes := make([]string, 0, len(post.Likes)+1)
	liked := true
	for _, id := range post.Likes {
		if id == userID {
			liked = false
			continue
		}
		likes = append(likes, id)
	}
	if liked {
		likes = append(likes, userID)
	}

	if err := s.postRepo.UpdateLikes(tx, post.ID, likes); err != nil {
		return nil, mapPostError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LikeResult{
		Liked:      liked,
		Likes:      likes,
		LikesCount: len(likes),
	}, nil
}

// findOwned - чужой пост неотличим от отсутствующего
func (s *postService) findOwned(ctx context.Context, db *gorm.DB, userID, postID string) (*models.Post, error) {
	post, err := s.postRepo.FindActiveByID(db.WithContext(ctx), postID)
	if err != nil {
		return nil, mapPostError(err)
	}
	if post.UserID != userID {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

func (s *postService) attachImages(ctx context.Context, db *gorm.DB, post *models.Post) error {
	images, err := s.uploadService.ResolveMedia(ctx, db, post.ImageIDs)
	if err != nil {
		return err
	}
	post.Images = images
	return nil
}

func (s *postService) buildPage(ctx context.Context, db *gorm.DB, posts []models.Post, page dto.PageRequest, total int64) (*dto.Page[models.Post], error) {
	for i := range posts {
		if err := s.attachImages(ctx, db, &posts[i]); err != nil {
			return nil, err
		}
	}
	return &dto.Page[models.Post]{
		Items:      posts,
		Pagination: dto.NewPagination(page, total),
	}, nil
}

func mapPostError(err error) error {
	if errors.Is(err, repositories.ErrPostNotFound) {
		return apperrors.ErrPostNotFound
	}
	return apperrors.InternalError(err)
}
