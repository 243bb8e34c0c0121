package server

import (
	"bytes"
	"compress/gzip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// encodeJSON marshals v without HTML escaping and without a trailing newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// weakETag is W/"<sha1 of body>".
func weakETag(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

// writeCacheable sends a JSON body with validators. A matching If-None-Match yields 304.
func writeCacheable(c *gin.Context, body []byte, cacheControl string, allowGzip bool) {
	etag := weakETag(body)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Header("ETag", etag)
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.Header("ETag", etag)

	if allowGzip {
		c.Header("Vary", "Accept-Encoding")
		if strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			compressed, err := gzipBytes(body)
			if err == nil {
				c.Header("Content-Encoding", "gzip")
				c.Data(http.StatusOK, jsonContentType, compressed)
				return
			}
			log.Warnf("Failed to gzip response: %v", err)
		}
	}

	c.Data(http.StatusOK, jsonContentType, body)
}

func gzipBytes(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}

func writeUnavailable(c *gin.Context, err error) {
	log.Errorf("❌ Catalog request %s failed: %v", c.Request.URL.Path, err)
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, "internal", "catalog unavailable")
}
