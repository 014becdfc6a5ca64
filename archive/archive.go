package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/lihungbin/PlanetaryComputer/util"
)

// Context is the context for an archive download
type Context struct {
	BaseStacURL     string
	SubscriptionKey string
	sessionID       string
}

// AppName returns the broker name
func (c *Context) AppName() string {
	return "pc-broker"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID = util.NewSessionID()
	}
	return c.sessionID
}

// Download fetches the compressed tar of an entire collection's assets and
// extracts it under destDir, returning the extracted file paths. This is the
// bulk alternative to per-item iteration; the stream is extracted as it
// downloads and never buffered whole.
func Download(ctx context.Context, client *Context, collectionID, destDir string) ([]string, error) {
	inputURL := strings.TrimRight(client.BaseStacURL, "/") + "/archive/" + url.PathEscape(collectionID)

	request, err := http.NewRequestWithContext(ctx, "GET", inputURL, nil)
	if err != nil {
		return nil, util.LogSimpleErr(client, fmt.Sprintf("Failed to build archive request for %v.", collectionID), err)
	}
	if client.SubscriptionKey != "" {
		request.Header.Set(util.SubscriptionKeyHeader, client.SubscriptionKey)
	}

	response, err := util.HTTPClient().Do(request)
	if err != nil {
		return nil, util.LogSimpleErr(client, fmt.Sprintf("Failed to download archive for collection %v.", collectionID), err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode >= 400 && response.StatusCode < 500:
		message := fmt.Sprintf("Failed to download archive for collection %v: %v. ", collectionID, response.Status)
		util.LogAlert(client, message)
		return nil, util.HTTPErr{Status: response.StatusCode, Message: message}
	case response.StatusCode >= 500:
		archiveErr := util.Error{
			LogMsg:     fmt.Sprintf("Archive endpoint failed for collection %v: %v", collectionID, response.Status),
			SimpleMsg:  "The archive service returned an error for this collection.",
			URL:        inputURL,
			HTTPStatus: response.StatusCode,
		}
		return nil, archiveErr.Log(client, "")
	}

	return extract(client, response.Body, destDir)
}

func extract(logContext util.LogContext, stream io.Reader, destDir string) ([]string, error) {
	gzipReader, err := gzip.NewReader(stream)
	if err != nil {
		return nil, util.LogSimpleErr(logContext, "Archive stream is not gzip-compressed.", err)
	}
	defer gzipReader.Close()

	var extracted []string
	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return extracted, util.LogSimpleErr(logContext, "Failed reading archive entry.", err)
		}

		target, err := securePath(destDir, header.Name)
		if err != nil {
			return extracted, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return extracted, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return extracted, err
			}
			file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0o777)
			if err != nil {
				return extracted, err
			}
			if _, err := io.Copy(file, tarReader); err != nil {
				file.Close()
				return extracted, err
			}
			file.Close()
			extracted = append(extracted, target)
		}
	}
	return extracted, nil
}

// securePath rejects archive entries that would escape the destination
func securePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.Clean("/"+name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination directory", name)
	}
	return target, nil
}
