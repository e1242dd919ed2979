package spark

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brandon/mcp-spark/internal/extract"
	"github.com/brandon/mcp-spark/pkg/types"
)

// ListAttachments lists attachment metadata for one message. Downloaded is
// a filesystem probe against the cache conventions, not database state.
func (s *Store) ListAttachments(messagePk int64) (*types.AttachmentList, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(`
		SELECT pk, messagePk, fileName, mimeType, size
		FROM attachments
		WHERE messagePk = ?
		ORDER BY pk
	`, messagePk)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	attachments := []types.Attachment{}
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		a.Downloaded = s.attachmentPath(a.MessagePk, a.FileName) != ""
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attachments: %w", err)
	}

	return &types.AttachmentList{Attachments: attachments, Total: len(attachments)}, nil
}

// GetAttachment resolves one attachment by message and zero-based index.
// Missing message/index returns nil. An attachment whose binary is not in
// either cache location reports downloaded:false; that is a valid state,
// not an error.
func (s *Store) GetAttachment(messagePk int64, index int, extractText bool) (*types.AttachmentContent, error) {
	list, err := s.ListAttachments(messagePk)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(list.Attachments) {
		return nil, nil
	}

	att := list.Attachments[index]
	content := &types.AttachmentContent{Attachment: att}

	path := s.attachmentPath(att.MessagePk, att.FileName)
	if path == "" {
		content.Downloaded = false
		content.Content = "[Attachment not downloaded locally]"
		content.ContentType = "error"
		return content, nil
	}
	content.Path = path

	if extractText {
		text, contentType := extract.Text(path, att.MimeType)
		content.Content = text
		content.ContentType = contentType
		return content, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		content.Content = fmt.Sprintf("[Failed to read file: %v]", err)
		content.ContentType = "error"
		return content, nil
	}
	content.Content = base64.StdEncoding.EncodeToString(data)
	content.ContentType = "base64"
	return content, nil
}

// SearchAttachments finds attachments by filename pattern (* wildcard) and
// MIME type, joined natively to their owning messages, newest first.
func (s *Store) SearchAttachments(filename, mimeType string, limit int) ([]types.AttachmentHit, error) {
	if limit <= 0 {
		limit = 20
	}

	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var conditions []string
	var args []interface{}

	if filename != "" {
		pattern := strings.ReplaceAll(filename, "*", "%")
		if !strings.Contains(pattern, "%") {
			pattern = "%" + pattern + "%"
		}
		conditions = append(conditions, "a.fileName LIKE ?")
		args = append(args, pattern)
	}
	if mimeType != "" {
		conditions = append(conditions, "a.mimeType = ?")
		args = append(args, mimeType)
	}

	query := fmt.Sprintf(`
		SELECT a.pk, a.messagePk, a.fileName, a.mimeType, a.size,
		       m.subject, m.messageFrom, m.receivedDate
		FROM attachments a
		JOIN messages m ON m.pk = a.messagePk
		%s
		ORDER BY m.receivedDate DESC
		LIMIT ?
	`, whereClause(conditions))
	args = append(args, limit)

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search attachments: %w", err)
	}
	defer rows.Close()

	hits := []types.AttachmentHit{}
	for rows.Next() {
		var (
			a        types.Attachment
			fileName sql.NullString
			mime     sql.NullString
			subject  sql.NullString
			sender   sql.NullString
			received int64
		)
		if err := rows.Scan(&a.AttachmentPk, &a.MessagePk, &fileName, &mime, &a.Size, &subject, &sender, &received); err != nil {
			return nil, fmt.Errorf("failed to scan attachment hit: %w", err)
		}
		a.FileName = fileName.String
		a.MimeType = mime.String
		a.Downloaded = s.attachmentPath(a.MessagePk, a.FileName) != ""
		hits = append(hits, types.AttachmentHit{
			Attachment:   a,
			Subject:      orEmpty(subject, "(no subject)"),
			Sender:       orEmpty(sender, "Unknown"),
			ReceivedDate: formatUnix(received),
		})
	}
	return hits, rows.Err()
}

func scanAttachment(rows *sql.Rows) (types.Attachment, error) {
	var (
		a        types.Attachment
		fileName sql.NullString
		mime     sql.NullString
	)
	if err := rows.Scan(&a.AttachmentPk, &a.MessagePk, &fileName, &mime, &a.Size); err != nil {
		return types.Attachment{}, fmt.Errorf("failed to scan attachment: %w", err)
	}
	a.FileName = fileName.String
	a.MimeType = mime.String
	return a, nil
}

// attachmentPath reconstructs the on-disk location of an attachment binary
// from the cache-directory conventions. Primary convention first, then the
// legacy flat layout; empty when neither file exists.
func (s *Store) attachmentPath(messagePk int64, fileName string) string {
	base := filepath.Dir(s.messagesPath)

	primary := filepath.Join(base, "attachments", fmt.Sprintf("%d", messagePk), fileName)
	if _, err := os.Stat(primary); err == nil {
		return primary
	}

	legacy := filepath.Join(base, "attachment-cache", fmt.Sprintf("%d_%s", messagePk, fileName))
	if _, err := os.Stat(legacy); err == nil {
		return legacy
	}

	return ""
}
