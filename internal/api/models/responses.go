package models

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

type SearchUsersResponse struct {
	Users []User `json:"users"`
}

type SearchArtistsResponse struct {
	Artists []Artist `json:"artists"`
}

type SearchPlaylistsResponse struct {
	Playlists []Playlist `json:"playlists"`
}

type SearchSongsResponse struct {
	Songs []Song `json:"songs"`
}

type TotalStreamsResponse struct {
	Artist       string `json:"artist"`
	TotalStreams int64  `json:"total_streams"`
}
