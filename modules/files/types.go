package files

// UploadImageRequest is the upload-image service request. Data travels as
// base64 in JSON across the service container.
type UploadImageRequest struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
	MaxBytes    int64  `json:"max_bytes"`
}

// UploadImageResponse is the upload-image service response.
type UploadImageResponse struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// GetImageRequest is the get-image service request.
type GetImageRequest struct {
	Name string `json:"name"`
}

// GetImageResponse is the get-image service response.
type GetImageResponse struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
}
