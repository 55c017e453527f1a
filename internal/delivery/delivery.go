package delivery

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PPTXContentType is the MIME type of a presentation package
const PPTXContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// File is a named binary ready for delivery
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Receipt describes where a delivered file ended up
type Receipt struct {
	Location string
	Size     int64
}

// Deliverer sends a file to its destination
type Deliverer interface {
	Deliver(ctx context.Context, f File) (Receipt, error)
}

func (f File) contentType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return PPTXContentType
}

// FileDeliverer writes files into a download directory
type FileDeliverer struct {
	Dir string
}

// Deliver writes the file atomically: to a temporary name first, then renamed
// into place so readers never see a partial deck.
func (d FileDeliverer) Deliver(ctx context.Context, f File) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, &Error{Message: "delivery cancelled", Cause: err}
	}
	name := filepath.Base(strings.TrimSpace(f.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return Receipt{}, &Error{Message: "file has no name"}
	}

	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Receipt{}, &Error{Message: "failed to create output directory", Cause: err}
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return Receipt{}, &Error{Message: "failed to create temporary file", Cause: err}
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close() //nolint:errcheck
		return Receipt{}, &Error{Message: "failed to write " + name, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return Receipt{}, &Error{Message: "failed to write " + name, Cause: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return Receipt{}, &Error{Message: "failed to set permissions on " + name, Cause: err}
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Receipt{}, &Error{Message: "failed to move " + name + " into place", Cause: err}
	}
	return Receipt{Location: path, Size: int64(len(f.Data))}, nil
}

// HTTPDeliverer streams the file as an attachment download
type HTTPDeliverer struct {
	W http.ResponseWriter
}

// Deliver writes the headers and body of the download response
func (d HTTPDeliverer) Deliver(ctx context.Context, f File) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, &Error{Message: "delivery cancelled", Cause: err}
	}
	h := d.W.Header()
	h.Set("Content-Type", f.contentType())
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	h.Set("Content-Length", strconv.Itoa(len(f.Data)))
	d.W.WriteHeader(http.StatusOK)

	n, err := d.W.Write(f.Data)
	if err != nil {
		return Receipt{}, &Error{Message: "failed to write response body", Cause: err}
	}
	return Receipt{Location: f.Name, Size: int64(n)}, nil
}
