package gmail

import "context"

// ListSendAs returns the verified sender identities configured under
// "Send mail as" in the account's Gmail settings.
func (c *Client) ListSendAs(ctx context.Context) ([]SendAsAddress, error) {
	req := c.svc.Users.Settings.SendAs.List("me")

	var addresses []SendAsAddress
	err := runWithRetry(c.account, func() error {
		resp, err := req.Context(ctx).Do()
		if err != nil {
			return err
		}
		addresses = addresses[:0]
		for _, sa := range resp.SendAs {
			addresses = append(addresses, SendAsAddress{
				Email:       sa.SendAsEmail,
				DisplayName: sa.DisplayName,
				IsPrimary:   sa.IsPrimary,
				IsDefault:   sa.IsDefault,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// Signature returns the primary identity's configured signature. Failures
// and an unset signature both yield ""; the signature is decoration, never
// a reason to fail a send.
func (c *Client) Signature(ctx context.Context) string {
	req := c.svc.Users.Settings.SendAs.List("me")

	resp, err := req.Context(ctx).Do()
	if err != nil {
		return ""
	}

	for _, sa := range resp.SendAs {
		if sa.IsPrimary {
			return sa.Signature
		}
	}
	return ""
}
