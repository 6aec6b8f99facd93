package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

func (p ListParams) Query() url.Values {
	qs := url.Values{}
	if p.Q != "" {
		qs.Set("q", p.Q)
	}
	if p.Genre != "" {
		qs.Set("genre", p.Genre)
	}
	if p.IsPremium != nil {
		qs.Set("is_premium", strconv.FormatBool(*p.IsPremium))
	}
	if p.Limit > 0 {
		qs.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		qs.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Order != "" {
		qs.Set("order", p.Order)
	}
	return qs
}

func (c *Client) ListMovies(ctx context.Context, params ListParams) ([]Movie, error) {
	path := "/movies"
	if qs := params.Query().Encode(); qs != "" {
		path += "?" + qs
	}
	out := []Movie{}
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMovie(ctx context.Context, id int64) (Movie, error) {
	var out Movie
	if err := c.getJSON(ctx, moviePath(id, ""), &out); err != nil {
		return Movie{}, err
	}
	return out, nil
}

func (c *Client) CreateMovie(ctx context.Context, in MovieCreate) (Movie, error) {
	var out Movie
	if err := c.sendJSON(ctx, http.MethodPost, "/movies", in, &out); err != nil {
		return Movie{}, err
	}
	return out, nil
}

// UpdateMovie accepts both the {"movie": {...}} envelope and a bare movie.
func (c *Client) UpdateMovie(ctx context.Context, id int64, in MovieUpdate) (Movie, error) {
	var raw json.RawMessage
	if err := c.sendJSON(ctx, http.MethodPut, moviePath(id, ""), in, &raw); err != nil {
		return Movie{}, err
	}
	return decodeMovie(raw)
}

func (c *Client) UploadThumbnail(ctx context.Context, id int64, filename string, r io.Reader) (Movie, error) {
	var out struct {
		Movie Movie `json:"movie"`
	}
	if err := c.upload(ctx, moviePath(id, "upload-thumbnail"), filename, r, &out); err != nil {
		return Movie{}, err
	}
	return out.Movie, nil
}

func (c *Client) UploadTrailer(ctx context.Context, id int64, filename string, r io.Reader) (Movie, error) {
	var out struct {
		Movie Movie `json:"movie"`
	}
	if err := c.upload(ctx, moviePath(id, "upload-trailer"), filename, r, &out); err != nil {
		return Movie{}, err
	}
	return out.Movie, nil
}

func (c *Client) UploadVideo(ctx context.Context, id int64, filename string, r io.Reader) (VideoUpload, error) {
	var out VideoUpload
	if err := c.upload(ctx, moviePath(id, "upload-video"), filename, r, &out); err != nil {
		return VideoUpload{}, err
	}
	return out, nil
}

func (c *Client) upload(ctx context.Context, path, filename string, r io.Reader, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build upload: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

func moviePath(id int64, action string) string {
	p := "/movies/" + strconv.FormatInt(id, 10)
	if action != "" {
		p += "/" + action
	}
	return p
}

func decodeMovie(raw json.RawMessage) (Movie, error) {
	var env struct {
		Movie *Movie `json:"movie"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Movie != nil {
		return *env.Movie, nil
	}
	var m Movie
	if err := json.Unmarshal(raw, &m); err != nil {
		return Movie{}, &RequestError{Kind: KindDecode, Status: http.StatusOK, Message: "invalid response body", Err: err}
	}
	return m, nil
}
