package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
)

var (
	ErrStorageUnavailable  = errors.New("avatar storage is not configured")
	ErrFileTooLarge        = errors.New("file exceeds the 2MB limit")
	ErrUnsupportedFileType = errors.New("only image uploads are allowed")
)

const maxAvatarSize = 2 << 20

// AvatarStorage uploads an avatar and returns its public URL. The minio
// adapter satisfies it; nil means uploads are disabled.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type UserService struct {
	users   UserRepository
	storage AvatarStorage
}

func NewUserService(users UserRepository, storage AvatarStorage) *UserService {
	return &UserService{users: users, storage: storage}
}

func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}
	if file.Size > maxAvatarSize {
		return "", ErrFileTooLarge
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", ErrUnsupportedFileType
	}

	url, err := s.storage.UploadAvatar(ctx, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		return "", fmt.Errorf("failed to store avatar url: %w", err)
	}
	return url, nil
}
