// Copyright 2025 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultInteropEndpoint is the endpoint of the Google Storage XML API.
const DefaultInteropEndpoint = "storage.googleapis.com"

// interopProviderPrefix is the metadata prefix for the XML API.
const interopProviderPrefix = "x-amz-meta"

// InteropConfig configures Interop.
type InteropConfig struct {
	// Endpoint defaults to DefaultInteropEndpoint.
	Endpoint string
	// AccessID and Secret are HMAC keys of a service account.
	AccessID string
	Secret   string
	// Insecure uses http instead of https.
	Insecure bool
}

type objectPutter interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Interop copies files through the S3 compatible XML API of
// Google Storage, without gsutil installed.
type Interop struct {
	client objectPutter
}

// NewInterop creates Interop with HMAC keys.
func NewInterop(cfg InteropConfig) (*Interop, error) {
	if cfg.AccessID == "" || cfg.Secret == "" {
		return nil, errors.New("HMAC access id and secret are required")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultInteropEndpoint
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessID, cfg.Secret, ""),
		Secure: !cfg.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client for %s: %w", endpoint, err)
	}
	return &Interop{client: client}, nil
}

// ParseURL returns bucket and object name of gs:// url.
func ParseURL(url string) (bucket, object string, err error) {
	s, ok := strings.CutPrefix(url, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// url: %q", url)
	}
	bucket, object, ok = strings.Cut(s, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("no bucket or object in %q", url)
	}
	return bucket, object, nil
}

// Copy uploads local file src to gs:// url dst.
func (c *Interop) Copy(ctx context.Context, src, dst string, opts Options) error {
	if strings.HasPrefix(src, "gs://") {
		return fmt.Errorf("copy from %s: only local files are supported", src)
	}
	src = strings.TrimPrefix(src, "file://")
	bucket, object, err := ParseURL(dst)
	if err != nil {
		return err
	}
	buf, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	putOpts := putObjectOptions(opts)
	if opts.Compress {
		buf, err = gzipBytes(buf)
		if err != nil {
			return fmt.Errorf("compress %s: %w", src, err)
		}
		putOpts.ContentEncoding = "gzip"
	}
	log.Infof("upload %s to %s (%d bytes)", src, dst, len(buf))
	_, err = c.client.PutObject(ctx, bucket, object, bytes.NewReader(buf), int64(len(buf)), putOpts)
	if err != nil {
		return fmt.Errorf("upload %s to %s: %w", src, dst, err)
	}
	return nil
}

// gcsMetaPrefix is the JSON API spelling of a custom metadata key. The XML
// API only stores custom metadata sent under the interop prefix.
const gcsMetaPrefix = "x-goog-meta-"

// putObjectOptions converts opts to headers of the XML API.
func putObjectOptions(opts Options) minio.PutObjectOptions {
	var po minio.PutObjectOptions
	for _, h := range opts.headers() {
		name, value := h[0], h[1]
		switch field := MetadataField(name, interopProviderPrefix); field {
		case "Cache-Control":
			po.CacheControl = value
		case "Content-Disposition":
			po.ContentDisposition = value
		case "Content-Encoding":
			po.ContentEncoding = value
		case "Content-Language":
			po.ContentLanguage = value
		case "Content-Type":
			po.ContentType = value
		case "Content-MD5":
			po.SendContentMd5 = true
		default:
			if po.UserMetadata == nil {
				po.UserMetadata = make(map[string]string)
			}
			if len(field) > len(gcsMetaPrefix) && strings.EqualFold(field[:len(gcsMetaPrefix)], gcsMetaPrefix) {
				field = interopProviderPrefix + "-" + field[len(gcsMetaPrefix):]
			}
			po.UserMetadata[field] = value
		}
	}
	if opts.ACL != "" {
		if po.UserMetadata == nil {
			po.UserMetadata = make(map[string]string)
		}
		po.UserMetadata["x-amz-acl"] = opts.ACL
	}
	return po
}

func gzipBytes(buf []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	_, err := w.Write(buf)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
