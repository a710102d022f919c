package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/repositories"
)

func newTestUserService() (*UserService, *fakeAccountRepo, *fakeAccountRepo, *fakePlaylistRepo, *fakeSongRepo) {
	users := newFakeAccountRepo()
	artists := newFakeAccountRepo()
	playlists := newFakePlaylistRepo()
	songs := newFakeSongRepo()
	return NewUserService(users, artists, playlists, songs, testLogger()), users, artists, playlists, songs
}

func TestAccountCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with empty lists", func(t *testing.T) {
		svc, users, _, _, _ := newTestUserService()
		account, err := svc.Create(ctx, "alice", "alice.png", "hunter2")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if account.PasswordHash == "hunter2" {
			t.Error("password stored in plaintext")
		}
		if account.RegisterDate == "" {
			t.Error("register date not set")
		}
		if len(account.PlaybackHistory) != 0 || len(account.Playlists) != 0 || len(account.SavedPlaylists) != 0 {
			t.Error("new account lists are not empty")
		}
		if _, ok := users.accounts["alice"]; !ok {
			t.Error("account not persisted")
		}
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		svc, _, _, _, _ := newTestUserService()
		for _, name := range []string{"", "   ", "a/b", "bad\nname"} {
			if _, err := svc.Create(ctx, name, "", "pw"); !errors.Is(err, sonoraErrors.ErrBadParameter) {
				t.Errorf("Create(%q) error = %v, want ErrBadParameter", name, err)
			}
		}
	})

	t.Run("rejects empty password", func(t *testing.T) {
		svc, _, _, _, _ := newTestUserService()
		if _, err := svc.Create(ctx, "alice", "", ""); !errors.Is(err, sonoraErrors.ErrBadParameter) {
			t.Errorf("error = %v, want ErrBadParameter", err)
		}
	})

	t.Run("name taken in own namespace", func(t *testing.T) {
		svc, _, _, _, _ := newTestUserService()
		if _, err := svc.Create(ctx, "alice", "", "pw"); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Create(ctx, "alice", "", "pw"); !errors.Is(err, sonoraErrors.ErrAlreadyExists) {
			t.Errorf("error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("name taken in other namespace", func(t *testing.T) {
		svc, _, artists, _, _ := newTestUserService()
		artists.accounts["bowie"] = &repositories.AccountDAO{Name: "bowie"}
		if _, err := svc.Create(ctx, "bowie", "", "pw"); !errors.Is(err, sonoraErrors.ErrAlreadyExists) {
			t.Errorf("error = %v, want ErrAlreadyExists", err)
		}
	})
}

func TestAccountUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("only the subject may update", func(t *testing.T) {
		svc, _, _, _, _ := newTestUserService()
		photo := "new.png"
		err := svc.Update(ctx, "mallory", "alice", AccountUpdate{Photo: &photo})
		if !errors.Is(err, sonoraErrors.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("updates photo and rehashes password", func(t *testing.T) {
		svc, users, _, _, _ := newTestUserService()
		if _, err := svc.Create(ctx, "alice", "old.png", "pw"); err != nil {
			t.Fatal(err)
		}
		oldHash := users.accounts["alice"].PasswordHash

		photo, password := "new.png", "newpw"
		if err := svc.Update(ctx, "alice", "alice", AccountUpdate{Photo: &photo, Password: &password}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if users.accounts["alice"].Photo != "new.png" {
			t.Error("photo not updated")
		}
		if users.accounts["alice"].PasswordHash == oldHash {
			t.Error("password hash unchanged")
		}
	})

	t.Run("empty password rejected", func(t *testing.T) {
		svc, _, _, _, _ := newTestUserService()
		if _, err := svc.Create(ctx, "alice", "", "pw"); err != nil {
			t.Fatal(err)
		}
		empty := ""
		err := svc.Update(ctx, "alice", "alice", AccountUpdate{Password: &empty})
		if !errors.Is(err, sonoraErrors.ErrBadParameter) {
			t.Errorf("error = %v, want ErrBadParameter", err)
		}
	})
}

func TestAccountDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("only the subject may delete", func(t *testing.T) {
		svc, _, _, _, _ := newTestUserService()
		if err := svc.Delete(ctx, "mallory", "alice"); !errors.Is(err, sonoraErrors.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("missing account reports not found", func(t *testing.T) {
		svc, _, _, _, _ := newTestUserService()
		if err := svc.Delete(ctx, "ghost", "ghost"); !errors.Is(err, sonoraErrors.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("removes the account", func(t *testing.T) {
		svc, users, _, _, _ := newTestUserService()
		if _, err := svc.Create(ctx, "alice", "", "pw"); err != nil {
			t.Fatal(err)
		}
		if err := svc.Delete(ctx, "alice", "alice"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, ok := users.accounts["alice"]; ok {
			t.Error("account still present after delete")
		}
	})
}

func TestAddPlaybackHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown song rejected", func(t *testing.T) {
		svc, _, _, _, _ := newTestUserService()
		if _, err := svc.Create(ctx, "alice", "", "pw"); err != nil {
			t.Fatal(err)
		}
		err := svc.AddPlaybackHistory(ctx, "alice", "alice", "ghost-song")
		if !errors.Is(err, sonoraErrors.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("evicts the oldest beyond the cap", func(t *testing.T) {
		svc, users, _, _, songs := newTestUserService()
		if _, err := svc.Create(ctx, "alice", "", "pw"); err != nil {
			t.Fatal(err)
		}
		names := []string{"s1", "s2", "s3", "s4", "s5", "s6"}
		for _, name := range names {
			songs.songs[name] = &repositories.SongDAO{Name: name}
		}
		for _, name := range names {
			if err := svc.AddPlaybackHistory(ctx, "alice", "alice", name); err != nil {
				t.Fatalf("AddPlaybackHistory(%q): %v", name, err)
			}
		}
		want := []string{"s2", "s3", "s4", "s5", "s6"}
		if got := users.accounts["alice"].PlaybackHistory; !reflect.DeepEqual(got, want) {
			t.Errorf("history = %v, want %v", got, want)
		}
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		svc, users, _, _, songs := newTestUserService()
		if _, err := svc.Create(ctx, "alice", "", "pw"); err != nil {
			t.Fatal(err)
		}
		songs.songs["loop"] = &repositories.SongDAO{Name: "loop"}
		for i := 0; i < 3; i++ {
			if err := svc.AddPlaybackHistory(ctx, "alice", "alice", "loop"); err != nil {
				t.Fatal(err)
			}
		}
		want := []string{"loop", "loop", "loop"}
		if got := users.accounts["alice"].PlaybackHistory; !reflect.DeepEqual(got, want) {
			t.Errorf("history = %v, want %v", got, want)
		}
	})
}

func TestSavedPlaylists(t *testing.T) {
	ctx := context.Background()
	svc, users, _, playlists, _ := newTestUserService()
	if _, err := svc.Create(ctx, "alice", "", "pw"); err != nil {
		t.Fatal(err)
	}
	playlists.playlists["mix"] = &repositories.PlaylistDAO{Name: "mix", Owner: "bob"}

	t.Run("unknown playlist rejected", func(t *testing.T) {
		err := svc.AddSavedPlaylist(ctx, "alice", "alice", "ghost")
		if !errors.Is(err, sonoraErrors.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("save is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if err := svc.AddSavedPlaylist(ctx, "alice", "alice", "mix"); err != nil {
				t.Fatal(err)
			}
		}
		if got := users.accounts["alice"].SavedPlaylists; !reflect.DeepEqual(got, []string{"mix"}) {
			t.Errorf("saved playlists = %v, want [mix]", got)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := svc.RemoveSavedPlaylist(ctx, "alice", "alice", "mix"); err != nil {
			t.Fatal(err)
		}
		if got := users.accounts["alice"].SavedPlaylists; len(got) != 0 {
			t.Errorf("saved playlists = %v, want empty", got)
		}
	})
}

func TestArtistTotalStreams(t *testing.T) {
	ctx := context.Background()
	users := newFakeAccountRepo()
	artists := newFakeAccountRepo()
	songs := newFakeSongRepo()
	svc := NewArtistService(artists, users, newFakePlaylistRepo(), songs, testLogger())

	artists.accounts["bowie"] = &repositories.AccountDAO{Name: "bowie"}
	songs.songs["a"] = &repositories.SongDAO{Name: "a", Artist: "bowie", Streams: 10}
	songs.songs["b"] = &repositories.SongDAO{Name: "b", Artist: "bowie", Streams: 32}
	songs.songs["c"] = &repositories.SongDAO{Name: "c", Artist: "other", Streams: 100}

	total, err := svc.TotalStreams(ctx, "bowie")
	if err != nil {
		t.Fatalf("TotalStreams: %v", err)
	}
	if total != 42 {
		t.Errorf("total = %d, want 42", total)
	}

	if _, err := svc.TotalStreams(ctx, "ghost"); !errors.Is(err, sonoraErrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
