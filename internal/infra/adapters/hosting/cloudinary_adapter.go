package hosting

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"roast-panel-service/internal/config"
	"roast-panel-service/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ArtifactHost = (*CloudinaryAdapter)(nil)

// CloudinaryAdapter uploads audio artifacts with a signed multipart request.
// Audio goes through the "video" resource type; that is how the hosting
// service files anything with a timeline.
type CloudinaryAdapter struct {
	cloudName string
	apiKey    string
	apiSecret string
	base      string // override in tests
	client    *http.Client
}

func NewCloudinaryAdapter(cfg config.HostingConfig) (*CloudinaryAdapter, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary credentials incomplete")
	}
	return &CloudinaryAdapter{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		base:      "https://api.cloudinary.com",
		client:    &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (c *CloudinaryAdapter) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := c.sign(map[string]string{"timestamp": ts})

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if err := mw.WriteField("api_key", c.apiKey); err != nil {
				return err
			}
			if err := mw.WriteField("timestamp", ts); err != nil {
				return err
			}
			if err := mw.WriteField("signature", sig); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("file", filepath.Base(localPath))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	u := fmt.Sprintf("%s/v1_1/%s/video/upload", c.base, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("cloudinary http %d", resp.StatusCode)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", errors.New("cloudinary response missing secure_url")
	}
	return out.SecureURL, nil
}

// sign builds the API signature: SHA-1 over the sorted "k=v" params joined
// with "&", followed by the secret.
func (c *CloudinaryAdapter) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
