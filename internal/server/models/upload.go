package models

// PartURL is one presigned part-upload URL of a multipart upload session.
// Part numbers are 1-indexed and contiguous.
type PartURL struct {
	PartNumber int32
	SignedURL  string
}

// VideoUploadPlan is the storage work prepared for a changed video file: a
// fresh key, an initiated multipart upload and one presigned URL per part,
// in part-number order.
type VideoUploadPlan struct {
	Key      string
	UploadID string
	FileSize int64
	FileName string
	Type     string
	Parts    []PartURL
}

// ThumbnailUploadPlan is the storage work prepared for a changed thumbnail:
// a fresh key and a single presigned PUT URL.
type ThumbnailUploadPlan struct {
	Key  string
	Size int64
	Type string
	URL  string
}
