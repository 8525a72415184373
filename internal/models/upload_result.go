package models

// UploadResult is the body returned by the upload endpoint once the file is
// stored. Message carries the validation outcome, valid or not.
type UploadResult struct {
	Message string `json:"message" msgpack:"message"`
}
