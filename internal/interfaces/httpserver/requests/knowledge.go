package requests

// KnowledgeUploadRequest is the JSON document upload body.
type KnowledgeUploadRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// KnowledgeStatusRequest activates or deactivates a document.
type KnowledgeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
