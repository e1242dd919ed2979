package types

// Attachment is one file attached to a message. Downloaded reflects a
// filesystem probe, not database state.
type Attachment struct {
	AttachmentPk int64  `json:"attachmentPk"`
	MessagePk    int64  `json:"messagePk"`
	FileName     string `json:"fileName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Downloaded   bool   `json:"downloaded"`
}

// AttachmentList pairs attachments of one message with their count.
type AttachmentList struct {
	Attachments []Attachment `json:"attachments"`
	Total       int          `json:"total"`
}

// AttachmentContent is the resolved content of a single attachment.
// ContentType is "extracted_text", "base64", or "error".
type AttachmentContent struct {
	Attachment
	Path        string `json:"path,omitempty"`
	Content     string `json:"content,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// AttachmentHit is one row of an attachment search, carrying the owning
// message's headline fields.
type AttachmentHit struct {
	Attachment
	Subject      string `json:"subject"`
	Sender       string `json:"sender"`
	ReceivedDate string `json:"receivedDate"`
}
