package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
)

// GetAttachment fetches the raw attachment data.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	req := c.svc.Users.Messages.Attachments.Get("me", messageID, attachmentID)

	var data string
	err := runWithRetry(c.account, func() error {
		body, err := req.Context(ctx).Do()
		if err != nil {
			return err
		}
		data = body.Data
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &MessageNotFoundError{ID: messageID}
		}
		return nil, err
	}

	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment data: %w", err)
		}
	}
	return decoded, nil
}

// DownloadAttachment fetches the attachment and writes it to outputPath.
func (c *Client) DownloadAttachment(ctx context.Context, messageID, attachmentID, outputPath string) error {
	data, err := c.GetAttachment(ctx, messageID, attachmentID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}
	return nil
}
