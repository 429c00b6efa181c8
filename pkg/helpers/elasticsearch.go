package helpers

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/pkg/errors"
)

// NewESClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// ESIndexer writes user documents into one index.
type ESIndexer struct {
	Client *elasticsearch.Client
	Index  string
}

func NewESIndexer(client *elasticsearch.Client, index string) *ESIndexer {
	return &ESIndexer{Client: client, Index: index}
}

// IndexDoc upserts doc under the given id.
func (x *ESIndexer) IndexDoc(ctx context.Context, id int64, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(id, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, x.Client)
	if err != nil {
		return errors.Wrap(err, "es index")
	}
	defer res.Body.Close()
	return esError(res, "index")
}

// DeleteDoc removes the document. A missing document is not an error.
func (x *ESIndexer) DeleteDoc(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(id, 10),
	}
	res, err := req.Do(ctx, x.Client)
	if err != nil {
		return errors.Wrap(err, "es delete")
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return esError(res, "delete")
}

func esError(res *esapi.Response, op string) error {
	if !res.IsError() {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("es %s failed: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}
