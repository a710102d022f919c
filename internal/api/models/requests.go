package models

type Login struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateAccount struct {
	Name     string `json:"name" validate:"required"`
	Photo    string `json:"photo"`
	Password string `json:"password" validate:"required"`
}

type UpdateAccount struct {
	Photo    *string `json:"photo"`
	Password *string `json:"password"`
}

type CreatePlaylist struct {
	Name        string `json:"name" validate:"required"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
}

type UpdatePlaylist struct {
	NewName     *string `json:"new_name"`
	Photo       *string `json:"photo"`
	Description *string `json:"description"`
}

type AddSongs struct {
	SongNames []string `json:"song_names" validate:"required,min=1"`
}
