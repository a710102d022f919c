package models

import (
	"sonora-backend/internal/repositories"
	"sonora-backend/internal/services"
)

// Transfer representations of the stored entities. Password hashes are
// never exposed.

type User struct {
	Name            string   `json:"name"`
	Photo           string   `json:"photo"`
	RegisterDate    string   `json:"register_date"`
	PlaybackHistory []string `json:"playback_history"`
	Playlists       []string `json:"playlists"`
	SavedPlaylists  []string `json:"saved_playlists"`
}

type Artist struct {
	User
	UploadedSongs []string `json:"uploaded_songs"`
}

type Playlist struct {
	Name        string   `json:"name"`
	Photo       string   `json:"photo"`
	Description string   `json:"description"`
	UploadDate  string   `json:"upload_date"`
	Owner       string   `json:"owner"`
	SongNames   []string `json:"song_names"`
}

type Song struct {
	Name            string `json:"name"`
	Artist          string `json:"artist"`
	Photo           string `json:"photo"`
	Genre           string `json:"genre"`
	SecondsDuration int    `json:"seconds_duration"`
	Streams         int64  `json:"streams"`
	UploadDate      string `json:"upload_date"`
	AudioURL        string `json:"audio_url,omitempty"`
}

func NewUser(dao *repositories.AccountDAO) User {
	return User{
		Name:            dao.Name,
		Photo:           dao.Photo,
		RegisterDate:    dao.RegisterDate,
		PlaybackHistory: emptyIfNil(dao.PlaybackHistory),
		Playlists:       emptyIfNil(dao.Playlists),
		SavedPlaylists:  emptyIfNil(dao.SavedPlaylists),
	}
}

func NewArtist(dao *repositories.AccountDAO) Artist {
	return Artist{
		User:          NewUser(dao),
		UploadedSongs: emptyIfNil(dao.UploadedSongs),
	}
}

func NewPlaylist(dao *repositories.PlaylistDAO) Playlist {
	return Playlist{
		Name:        dao.Name,
		Photo:       dao.Photo,
		Description: dao.Description,
		UploadDate:  dao.UploadDate,
		Owner:       dao.Owner,
		SongNames:   emptyIfNil(dao.SongNames),
	}
}

func NewSong(song *services.Song) Song {
	s := NewSongMetadata(&song.SongDAO)
	s.AudioURL = song.AudioURL
	return s
}

func NewSongMetadata(dao *repositories.SongDAO) Song {
	return Song{
		Name:            dao.Name,
		Artist:          dao.Artist,
		Photo:           dao.Photo,
		Genre:           dao.Genre,
		SecondsDuration: dao.SecondsDuration,
		Streams:         dao.Streams,
		UploadDate:      dao.UploadDate,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
