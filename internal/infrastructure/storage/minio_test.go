package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

func TestMinIOStoreMissingObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>transcripts/none.json</Key><BucketName>b</BucketName><Resource>/b/transcripts/none.json</Resource><RequestId>1</RequestId><HostId>1</HostId></Error>`))
	}))
	defer srv.Close()

	store, err := NewMinIOStore(&config.StorageConfig{
		Endpoint:        strings.TrimPrefix(srv.URL, "http://"),
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UseSSL:          false,
	}, "us-east-1")
	require.NoError(t, err)

	_, err = store.GetObject(context.Background(), "b", "transcripts/none.json")
	assert.True(t, errors.Is(err, repositories.ErrObjectNotFound), "got %v", err)
	assert.Equal(t, "s3", store.Scheme())
}
