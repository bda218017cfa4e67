package gallery

import "errors"

var (
	ErrGeolocationInvalid    = errors.New("photo coordinates are missing or invalid")
	ErrStorageQuotaExceeded  = errors.New("storage quota exceeded, delete older photos to free space")
	ErrImageProcessingFailed = errors.New("image could not be processed")
	ErrPhotoNotFound         = errors.New("photo not found")
	ErrUnsupportedLanguage   = errors.New("unsupported language")
)
