package ingestion

import (
	"context"
	"net/url"
	"path"

	"github.com/jonathan/campaign-deck/internal/fetch"
)

// IngestFromURL fetches a report export and ingests it. The format comes from
// the URL path extension, then the response content type.
func IngestFromURL(ctx context.Context, urlStr string, opts *fetch.Options) (string, *Metadata, error) {
	result, err := fetch.URL(ctx, urlStr, opts)
	if err != nil {
		return "", nil, &Error{Source: urlStr, Message: "fetch failed", Cause: err}
	}

	name := ""
	if u, err := url.Parse(urlStr); err == nil {
		name = path.Base(u.Path)
	}

	return Ingest(result.Body, DetectFormat(name, result.ContentType), urlStr)
}
