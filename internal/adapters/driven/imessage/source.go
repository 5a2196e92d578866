// Package imessage reads the macOS Messages archive and sends messages
// through the Messages app. Reading requires Full Disk Access; sending
// uses AppleScript via osascript.
package imessage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/handeliew/hugin/internal/core/domain"
	"github.com/handeliew/hugin/internal/core/ports/driven"
)

// appleEpoch is the reference point of Messages database timestamps.
// The message.date column counts nanoseconds since this instant.
var appleEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultDatabasePath returns the standard location of the Messages
// archive for the current user.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, "Library", "Messages", "chat.db"), nil
}

// Source implements the MessageSource port over the Messages archive.
type Source struct {
	dbPath string
}

var _ driven.MessageSource = (*Source)(nil)

// NewSource creates a Source reading from the database at dbPath.
func NewSource(dbPath string) *Source {
	return &Source{dbPath: dbPath}
}

// Available reports whether the Messages database exists and is readable.
func (s *Source) Available() bool {
	_, err := os.Stat(s.dbPath)
	return err == nil
}

const attachmentQuery = `
	SELECT
		message.date,
		handle.id,
		attachment.filename,
		attachment.mime_type
	FROM message
	JOIN message_attachment_join ON message.ROWID = message_attachment_join.message_id
	JOIN attachment ON message_attachment_join.attachment_id = attachment.ROWID
	LEFT JOIN handle ON message.handle_id = handle.ROWID
	WHERE attachment.filename IS NOT NULL
		AND handle.id LIKE ?
		AND message.date > ?
	ORDER BY message.date DESC
	LIMIT ?`

// RecentAttachments returns attachments from the named sender received
// after since, newest first. The sender matches as a substring so either
// a phone number or an iMessage email works.
func (s *Source) RecentAttachments(ctx context.Context, sender string, since time.Time, limit int) ([]domain.Attachment, error) {
	// mode=ro keeps us from ever writing to the Messages archive.
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", s.dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening messages database: %w", err)
	}
	defer db.Close()

	sinceNanos := since.Sub(appleEpoch).Nanoseconds()

	rows, err := db.QueryContext(ctx, attachmentQuery, "%"+sender+"%", sinceNanos, limit)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		var dateNanos int64
		var handleID, filename, mimeType sql.NullString
		if err := rows.Scan(&dateNanos, &handleID, &filename, &mimeType); err != nil {
			return nil, fmt.Errorf("scanning attachment row: %w", err)
		}

		attachments = append(attachments, domain.Attachment{
			Path:     expandHome(filename.String),
			MIMEType: mimeType.String,
			Sender:   handleID.String,
			Received: appleEpoch.Add(time.Duration(dateNanos)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading attachment rows: %w", err)
	}

	return attachments, nil
}

// expandHome resolves the leading tilde the attachment table stores paths
// with.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
