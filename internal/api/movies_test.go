package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParams_Query(t *testing.T) {
	premium := false
	p := ListParams{Q: "alien", Genre: "Sci-Fi", IsPremium: &premium, Limit: 40, Order: "newest"}
	assert.Equal(t, "genre=Sci-Fi&is_premium=false&limit=40&order=newest&q=alien", p.Query().Encode())
	assert.Equal(t, "", ListParams{}.Query().Encode())
}

func TestListMovies(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies", r.URL.Path)
		assert.Equal(t, "drama", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		_, _ = io.WriteString(w, `[{"id":1,"title":"One","genre":"Drama","is_premium":false,"created_at":"x","updated_at":"x"}]`)
	}))
	movies, err := c.ListMovies(context.Background(), ListParams{Q: "drama", Offset: 20})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "One", movies[0].Title)
}

func TestUpdateMovie_AcceptsEnvelopeAndBareMovie(t *testing.T) {
	bodies := []string{
		`{"message":"Movie updated successfully","movie":{"id":3,"title":"New","genre":"Drama","is_premium":true}}`,
		`{"id":3,"title":"New","genre":"Drama","is_premium":true}`,
	}
	for _, body := range bodies {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/movies/3", r.URL.Path)
			var got map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, map[string]interface{}{"title": "New"}, got)
			_, _ = io.WriteString(w, body)
		}))
		title := "New"
		m, err := c.UpdateMovie(context.Background(), 3, MovieUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, int64(3), m.ID)
		assert.True(t, m.IsPremium)
	}
}

func TestCreateMovie(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies", r.URL.Path)
		var got MovieCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, GenreHorror, got.Genre)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":9,"title":"Night","genre":"Horror","is_premium":false}`)
	}))
	m, err := c.CreateMovie(context.Background(), MovieCreate{Title: "Night", Genre: GenreHorror})
	require.NoError(t, err)
	assert.Equal(t, int64(9), m.ID)
}

func TestUploadVideo_SendsMultipartFile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies/4/upload-video", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "clip.mp4", hdr.Filename)
		assert.Equal(t, "frames", string(data))
		_, _ = io.WriteString(w, `{"video_url":"https://cdn/4/index.m3u8","playlist_filename":"index.m3u8"}`)
	}))
	out, err := c.UploadVideo(context.Background(), 4, "clip.mp4", strings.NewReader("frames"))
	require.NoError(t, err)
	assert.Equal(t, "index.m3u8", out.PlaylistFilename)
}

func TestUploadThumbnail_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"message":"Admin privileges required","code":"HTTP_403"}}`)
	}))
	_, err := c.UploadThumbnail(context.Background(), 4, "a.png", strings.NewReader("png"))
	require.Error(t, err)
	assert.Equal(t, "Admin privileges required", Message(err, ""))
}

func TestGenreValid(t *testing.T) {
	assert.True(t, GenreSciFi.Valid())
	assert.False(t, Genre("Western").Valid())
}
