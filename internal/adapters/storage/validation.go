package storage

import (
	"fmt"
	"mime"
	"strings"
)

var allowedContentTypes = map[string]bool{
	"text/csv":         true,
	"application/json": true,
	"application/gzip": true,
}

func (s *MinIOStore) Validate(obj Object) error {
	return validate(obj, s.maxFileSize)
}

func validate(obj Object, maxFileSize int64) error {
	mediaType, _, err := mime.ParseMediaType(obj.ContentType)
	if err != nil || !allowedContentTypes[strings.ToLower(mediaType)] {
		return fmt.Errorf("content type %q is not accepted", obj.ContentType)
	}
	if obj.Size <= 0 {
		return fmt.Errorf("%s is empty", obj.Name)
	}
	if maxFileSize > 0 && obj.Size > maxFileSize {
		return fmt.Errorf("%s is %d bytes, limit is %d", obj.Name, obj.Size, maxFileSize)
	}
	return nil
}
