package api

// User is the identity record returned by /auth/me and inside AuthResponse.
type User struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	Role           string  `json:"role"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

const RoleAdmin = "admin"

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Password       string  `json:"password"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
	IssuedAt    string `json:"issued_at"`
	Message     string `json:"message,omitempty"`
}

type Genre string

const (
	GenreAction      Genre = "Action"
	GenreDrama       Genre = "Drama"
	GenreComedy      Genre = "Comedy"
	GenreThriller    Genre = "Thriller"
	GenreHorror      Genre = "Horror"
	GenreSciFi       Genre = "Sci-Fi"
	GenreRomance     Genre = "Romance"
	GenreDocumentary Genre = "Documentary"
	GenreAnimation   Genre = "Animation"
	GenreAdventure   Genre = "Adventure"
	GenreFantasy     Genre = "Fantasy"
	GenreCrime       Genre = "Crime"
	GenreMystery     Genre = "Mystery"
	GenreFamily      Genre = "Family"
)

var Genres = []Genre{
	GenreAction, GenreDrama, GenreComedy, GenreThriller, GenreHorror, GenreSciFi, GenreRomance,
	GenreDocumentary, GenreAnimation, GenreAdventure, GenreFantasy, GenreCrime, GenreMystery, GenreFamily,
}

func (g Genre) Valid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

type Movie struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Genre        string   `json:"genre"`
	ReleaseYear  *int     `json:"release_year,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	VideoURL     *string  `json:"video_url,omitempty"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
	TrailerURL   *string  `json:"trailer_url,omitempty"`
	IsPremium    bool     `json:"is_premium"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type MovieCreate struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Genre        Genre    `json:"genre"`
	ReleaseYear  int      `json:"release_year,omitempty"`
	Duration     int      `json:"duration,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	VideoURL     string   `json:"video_url,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	TrailerURL   string   `json:"trailer_url,omitempty"`
	IsPremium    bool     `json:"is_premium,omitempty"`
}

// MovieUpdate only sends the fields that are set.
type MovieUpdate struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Genre        *Genre   `json:"genre,omitempty"`
	ReleaseYear  *int     `json:"release_year,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	VideoURL     *string  `json:"video_url,omitempty"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
	TrailerURL   *string  `json:"trailer_url,omitempty"`
	IsPremium    *bool    `json:"is_premium,omitempty"`
}

type ListParams struct {
	Q         string `json:"q,omitempty"`
	Genre     string `json:"genre,omitempty"`
	IsPremium *bool  `json:"is_premium,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
	Order     string `json:"order,omitempty"`
}

type VideoUpload struct {
	VideoURL         string `json:"video_url"`
	PlaylistFilename string `json:"playlist_filename"`
}
