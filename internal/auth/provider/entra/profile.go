package entra

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/iMedia24/workplacify/internal/auth"
	"github.com/iMedia24/workplacify/internal/logger"
)

const (
	DefaultPhotoURL = "https://graph.microsoft.com/v1.0/me/photos/648x648/$value"

	photoTimeout  = 10 * time.Second
	maxPhotoBytes = 4 << 20
)

// Normalizer maps Entra ID token claims to an identity and fetches the
// user's photo from Microsoft Graph. The zero value is ready to use.
type Normalizer struct {
	Client   *http.Client
	PhotoURL string
}

// Normalize never fails. Absent claims leave fields empty and any photo
// problem leaves Image nil.
func (n *Normalizer) Normalize(ctx context.Context, p auth.Profile, tokens auth.Tokens) auth.Identity {
	identity := auth.Identity{
		ID:    p.First("sub", "oid", "id"),
		Name:  p.First("name", "displayName"),
		Email: p.First("email", "preferred_username", "upn"),
	}

	if tokens.AccessToken != "" {
		image, err := n.fetchPhoto(ctx, tokens.AccessToken)
		if err != nil {
			logger.Warn("failed to fetch profile photo", map[string]any{
				"provider": ProviderID,
				"error":    err.Error(),
			})
		}
		identity.Image = image
	}

	logger.Debug("entra profile mapped", map[string]any{
		"id_present":    identity.ID != "",
		"email_present": identity.Email != "",
		"image_present": identity.Image != nil,
	})

	return identity
}

func (n *Normalizer) fetchPhoto(ctx context.Context, accessToken string) (*string, error) {
	photoURL := n.PhotoURL
	if photoURL == "" {
		photoURL = DefaultPhotoURL
	}
	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: photoTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo request returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, err
	}

	uri := "data:" + mediaType(resp.Header.Get("Content-Type")) + ";base64," +
		base64.StdEncoding.EncodeToString(data)
	return &uri, nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt == "" {
		return "image/jpeg"
	}
	return mt
}
