package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/raushankrgupta/vogue-styler/gemini"
	"github.com/raushankrgupta/vogue-styler/models"
	"github.com/raushankrgupta/vogue-styler/session"
	"github.com/raushankrgupta/vogue-styler/store"
)

// fakeLooks is an in-memory LookStore.
type fakeLooks struct {
	mu    sync.Mutex
	looks map[string]models.SavedLook
	fail  error
}

func newFakeLooks() *fakeLooks {
	return &fakeLooks{looks: make(map[string]models.SavedLook)}
}

func (s *fakeLooks) Put(_ context.Context, look models.SavedLook) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.looks[look.ID] = look
	return nil
}

func (s *fakeLooks) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	delete(s.looks, id)
	return nil
}

func (s *fakeLooks) Get(_ context.Context, id string) (*models.SavedLook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	look, ok := s.looks[id]
	if !ok {
		return nil, nil
	}
	return &look, nil
}

func (s *fakeLooks) ListByUser(_ context.Context, userID string) ([]models.SavedLook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.SavedLook{}
	for _, l := range s.looks {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeAccounts is an in-memory AccountStore with the real store's
// validation semantics.
type fakeAccounts struct {
	mu    sync.Mutex
	users map[string]*models.UserAccount // keyed by email
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: make(map[string]*models.UserAccount)}
}

func (s *fakeAccounts) Register(_ context.Context, email, password, name string, gender models.Gender) (*models.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return nil, &store.ValidationError{Reason: "an account with this email already exists"}
	}
	u := &models.UserAccount{ID: "user-" + email, Email: email, Password: password, Name: name, Gender: gender}
	s.users[email] = u
	return u, nil
}

func (s *fakeAccounts) Authenticate(_ context.Context, email, password string) (*models.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok || u.Password != password {
		return nil, &store.ValidationError{Reason: "invalid email or password"}
	}
	return u, nil
}

func (s *fakeAccounts) FindByID(_ context.Context, id string) (*models.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// echoGenerator returns a fixed result for every transformation.
type echoGenerator struct{ result string }

func (g echoGenerator) Transform(context.Context, string, string, string) (string, error) {
	if g.result == "" {
		return "generated.png", nil
	}
	return g.result, nil
}

type fixture struct {
	ctl      *Controller
	accounts *fakeAccounts
	looks    *fakeLooks
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	accounts := newFakeAccounts()
	looks := newFakeLooks()
	sessions := session.NewManager(session.NewMemoryStore())
	ctl := NewController(Config{
		DeviceID:  "device-1",
		Accounts:  accounts,
		Looks:     looks,
		Sessions:  sessions,
		Generator: echoGenerator{},
	})
	return &fixture{ctl: ctl, accounts: accounts, looks: looks, sessions: sessions}
}

func (f *fixture) login(t *testing.T) *models.UserAccount {
	t.Helper()
	ctx := context.Background()
	if err := f.ctl.Register(ctx, "amy@example.com", "secret123", "Amy", models.GenderFemale); err != nil {
		t.Fatalf("register: %v", err)
	}
	user, err := f.ctl.Login(ctx, "amy@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	f.ctl.Wait()
	return user
}

func TestBootstrapWithoutSessionGoesHome(t *testing.T) {
	f := newFixture(t)
	f.ctl.Bootstrap(context.Background())
	if got := f.ctl.CurrentView(); got != Home {
		t.Errorf("view = %q, want home", got)
	}
	if f.ctl.CurrentUser() != nil {
		t.Error("user restored without a session")
	}
}

func TestBootstrapSplashDelayHolds(t *testing.T) {
	f := newFixture(t)
	f.ctl.cfg.SplashDelay = 20 * time.Millisecond

	f.ctl.Bootstrap(context.Background())
	if got := f.ctl.CurrentView(); got != Splash {
		t.Fatalf("view = %q, want splash during hold", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for f.ctl.CurrentView() != Home {
		if time.Now().After(deadline) {
			t.Fatal("splash never auto-transitioned to home")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBootstrapRestoresSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.login(t)

	look := models.SavedLook{ID: "look_1", UserID: user.ID, ResultURL: "r.png", Timestamp: 1}
	if err := f.looks.Put(ctx, look); err != nil {
		t.Fatal(err)
	}

	// A fresh controller on the same device picks the session back up.
	ctl := NewController(Config{
		DeviceID:  "device-1",
		Accounts:  f.accounts,
		Looks:     f.looks,
		Sessions:  f.sessions,
		Generator: echoGenerator{},
	})
	ctl.Bootstrap(ctx)
	ctl.Wait()

	if got := ctl.CurrentView(); got != Home {
		t.Errorf("view = %q, want home", got)
	}
	cur := ctl.CurrentUser()
	if cur == nil || cur.ID != user.ID {
		t.Fatalf("restored user = %+v, want %s", cur, user.ID)
	}
	if got := ctl.SavedLooks(); len(got) != 1 || got[0].ID != "look_1" {
		t.Errorf("restored looks = %+v, want [look_1]", got)
	}
}

func TestBootstrapClearsStaleSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.sessions.SetCurrentUser(ctx, "device-1", "ghost"); err != nil {
		t.Fatal(err)
	}

	f.ctl.Bootstrap(ctx)

	if got := f.ctl.CurrentView(); got != Home {
		t.Errorf("view = %q, want home", got)
	}
	if f.ctl.CurrentUser() != nil {
		t.Error("unresolvable session produced a user")
	}
	if id, _ := f.sessions.CurrentUser(ctx, "device-1"); id != "" {
		t.Errorf("stale session id %q not cleared", id)
	}
}

func TestNavigationGuards(t *testing.T) {
	tests := []struct {
		name   string
		login  bool
		target View
		want   View
	}{
		{"studio logged out", false, Studio, Login},
		{"favorites logged out", false, Favorites, Login},
		{"profile logged out", false, Profile, Login},
		{"look detail logged out", false, LookDetail, Login},
		{"home is free", false, Home, Home},
		{"search is free", false, Search, Search},
		{"studio logged in", true, Studio, Studio},
		{"favorites logged in", true, Favorites, Favorites},
		{"profile logged in", true, Profile, Profile},
		{"look detail without active look", true, LookDetail, Favorites},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.ctl.Bootstrap(context.Background())
			if tc.login {
				f.login(t)
			}
			if got := f.ctl.Navigate(tc.target); got != tc.want {
				t.Errorf("Navigate(%q) = %q, want %q", tc.target, got, tc.want)
			}
		})
	}
}

func TestNavigateIgnoresInvalidTargets(t *testing.T) {
	f := newFixture(t)
	f.ctl.Bootstrap(context.Background())

	if got := f.ctl.Navigate(View("settings")); got != Home {
		t.Errorf("unknown view moved to %q", got)
	}
	if got := f.ctl.Navigate(Splash); got != Home {
		t.Errorf("splash navigation moved to %q", got)
	}
}

func TestRegisterDuplicateLeavesViewUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.ctl.Bootstrap(ctx)
	f.ctl.Navigate(Register)

	if err := f.ctl.Register(ctx, "amy@example.com", "secret123", "Amy", models.GenderFemale); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if got := f.ctl.CurrentView(); got != Login {
		t.Errorf("view after register = %q, want login", got)
	}

	f.ctl.Navigate(Register)
	err := f.ctl.Register(ctx, "amy@example.com", "other", "Amy", models.GenderFemale)
	var verr *store.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("duplicate register error = %v, want ValidationError", err)
	}
	if got := f.ctl.CurrentView(); got != Register {
		t.Errorf("view after failed register = %q, want register", got)
	}
}

func TestLoginFailureLeavesViewUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.ctl.Bootstrap(ctx)
	f.ctl.Navigate(Login)

	if _, err := f.ctl.Login(ctx, "nobody@example.com", "pw"); err == nil {
		t.Fatal("login with unregistered email succeeded")
	}
	if got := f.ctl.CurrentView(); got != Login {
		t.Errorf("view after failed login = %q, want login", got)
	}
	if f.ctl.CurrentUser() != nil {
		t.Error("failed login set a user")
	}
}

func TestLoginPersistsSession(t *testing.T) {
	f := newFixture(t)
	user := f.login(t)

	if got := f.ctl.CurrentView(); got != Home {
		t.Errorf("view after login = %q, want home", got)
	}
	id, err := f.sessions.CurrentUser(context.Background(), "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if id != user.ID {
		t.Errorf("persisted session user = %q, want %q", id, user.ID)
	}
}

func TestLogoutTearsDownEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)
	f.ctl.Navigate(Studio)
	f.ctl.Finalize()

	f.ctl.Logout(ctx)

	if got := f.ctl.CurrentView(); got != Home {
		t.Errorf("view after logout = %q, want home", got)
	}
	if f.ctl.CurrentUser() != nil {
		t.Error("user survived logout")
	}
	if f.ctl.PendingResult() != nil {
		t.Error("pending result survived logout")
	}
	if len(f.ctl.SavedLooks()) != 0 {
		t.Error("cached looks survived logout")
	}
	if id, _ := f.sessions.CurrentUser(ctx, "device-1"); id != "" {
		t.Errorf("session id %q survived logout", id)
	}
}

func TestFinalizeAndSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.login(t)
	f.ctl.Navigate(Studio)

	f.ctl.Choose(models.StyleOption{ID: "fh1", Name: "French Bob", Category: models.CategoryHairstyle, Description: "sleek short bob", ThumbnailURL: "thumb.png"})
	f.ctl.Choose(models.StyleOption{ID: "ft1", Name: "Silk Blouse", Category: models.CategoryTop, Description: "white silk blouse"})
	f.ctl.Wait()

	res := f.ctl.Finalize()
	if got := f.ctl.CurrentView(); got != Result {
		t.Errorf("view after finalize = %q, want result", got)
	}
	if res.ResultURL != "generated.png" {
		t.Errorf("result url = %q", res.ResultURL)
	}

	look, err := f.ctl.SaveResult(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := f.ctl.CurrentView(); got != Favorites {
		t.Errorf("view after save = %q, want favorites", got)
	}
	if f.ctl.PendingResult() != nil {
		t.Error("pending result not cleared after save")
	}
	if look.UserID != user.ID {
		t.Errorf("look owner = %q, want %q", look.UserID, user.ID)
	}
	if look.Thumbnails["fh1"] != "thumb.png" {
		t.Errorf("thumbnails = %+v, want fh1 entry", look.Thumbnails)
	}
	// Options without their own thumbnail get the static fallback, never an
	// empty string.
	if look.Thumbnails["ft1"] != gemini.FallbackThumbnailURL {
		t.Errorf("thumbnails[ft1] = %q, want the fallback image", look.Thumbnails["ft1"])
	}

	saved := f.ctl.SavedLooks()
	if len(saved) != 1 || saved[0].ID != look.ID {
		t.Fatalf("cached looks = %+v, want the new look first", saved)
	}
	if stored, _ := f.looks.Get(ctx, look.ID); stored == nil {
		t.Error("look missing from the store")
	}
}

func TestSaveNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)
	f.ctl.Navigate(Studio)

	f.ctl.Finalize()
	first, err := f.ctl.SaveResult(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f.ctl.Navigate(Studio)
	f.ctl.Finalize()
	second, err := f.ctl.SaveResult(ctx)
	if err != nil {
		t.Fatal(err)
	}

	saved := f.ctl.SavedLooks()
	if len(saved) != 2 {
		t.Fatalf("cached looks = %d, want 2", len(saved))
	}
	if saved[0].ID != second.ID || saved[1].ID != first.ID {
		t.Errorf("order = [%s %s], want newest first", saved[0].ID, saved[1].ID)
	}
}

func TestSaveWithoutResult(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	if _, err := f.ctl.SaveResult(context.Background()); !errors.Is(err, ErrNoPendingResult) {
		t.Errorf("save without result: err = %v, want ErrNoPendingResult", err)
	}
}

func TestSaveStoreFailureKeepsResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)
	f.ctl.Navigate(Studio)
	f.ctl.Finalize()

	f.looks.fail = errors.New("mongo down")
	if _, err := f.ctl.SaveResult(ctx); err == nil {
		t.Fatal("save succeeded despite store failure")
	}
	if f.ctl.PendingResult() == nil {
		t.Error("pending result dropped on store failure")
	}
	if len(f.ctl.SavedLooks()) != 0 {
		t.Error("cached list updated despite store failure")
	}
	if got := f.ctl.CurrentView(); got != Result {
		t.Errorf("view = %q, want result retained", got)
	}
}

func TestDiscardResult(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.ctl.Navigate(Studio)
	f.ctl.Finalize()

	f.ctl.DiscardResult()

	if f.ctl.PendingResult() != nil {
		t.Error("pending result survived discard")
	}
	if got := f.ctl.CurrentView(); got != Home {
		t.Errorf("view after discard = %q, want home", got)
	}
}

func TestDeleteLook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)
	f.ctl.Navigate(Studio)
	f.ctl.Finalize()
	look, err := f.ctl.SaveResult(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f.ctl.OpenLook(ctx, look.ID)

	if err := f.ctl.DeleteLook(ctx, look.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.ctl.CurrentView(); got != Favorites {
		t.Errorf("view after delete = %q, want favorites", got)
	}
	if len(f.ctl.SavedLooks()) != 0 {
		t.Error("deleted look still cached")
	}
	if f.ctl.ActiveLook() != nil {
		t.Error("deleted look still active")
	}
	if stored, _ := f.looks.Get(ctx, look.ID); stored != nil {
		t.Error("deleted look still in the store")
	}
}

func TestDeleteActiveLookWithFollower(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)

	f.ctl.Navigate(Studio)
	f.ctl.Finalize()
	older, err := f.ctl.SaveResult(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f.ctl.Navigate(Studio)
	f.ctl.Finalize()
	newer, err := f.ctl.SaveResult(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Open the newer look (first in the cached list) and delete it. The
	// in-place compaction shifts the older look into that slot; the active
	// look must come out nil, not silently repointed at the survivor.
	if got := f.ctl.OpenLook(ctx, newer.ID); got != LookDetail {
		t.Fatalf("open = %q, want look_detail", got)
	}
	if err := f.ctl.DeleteLook(ctx, newer.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if active := f.ctl.ActiveLook(); active != nil {
		t.Errorf("deleted active look %s, but ActiveLook() = %s", newer.ID, active.ID)
	}
	saved := f.ctl.SavedLooks()
	if len(saved) != 1 || saved[0].ID != older.ID {
		t.Errorf("cached looks = %+v, want only %s", saved, older.ID)
	}
	// The detail view is gone with the look.
	if got := f.ctl.Navigate(LookDetail); got != Favorites {
		t.Errorf("look_detail after delete = %q, want favorites fallback", got)
	}
}

func TestOpenLook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)
	f.ctl.Navigate(Studio)
	f.ctl.Finalize()
	look, err := f.ctl.SaveResult(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if got := f.ctl.OpenLook(ctx, look.ID); got != LookDetail {
		t.Errorf("open known look = %q, want look_detail", got)
	}
	if active := f.ctl.ActiveLook(); active == nil || active.ID != look.ID {
		t.Errorf("active look = %+v, want %s", active, look.ID)
	}

	if got := f.ctl.OpenLook(ctx, "look_missing"); got != Favorites {
		t.Errorf("open unknown look = %q, want favorites fallback", got)
	}
	if f.ctl.ActiveLook() != nil {
		t.Error("unknown id left an active look behind")
	}
}

func TestOpenLookRejectsForeignOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)

	foreign := models.SavedLook{ID: "look_x", UserID: "someone-else", ResultURL: "r.png"}
	if err := f.looks.Put(ctx, foreign); err != nil {
		t.Fatal(err)
	}

	if got := f.ctl.OpenLook(ctx, "look_x"); got != Favorites {
		t.Errorf("open foreign look = %q, want favorites fallback", got)
	}
}

func TestEditFromLook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)
	f.ctl.Navigate(Studio)
	f.ctl.Choose(models.StyleOption{ID: "fh1", Name: "French Bob", Category: models.CategoryHairstyle, Description: "sleek short bob"})
	f.ctl.Wait()
	f.ctl.Finalize()
	look, err := f.ctl.SaveResult(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f.ctl.OpenLook(ctx, look.ID)

	if got := f.ctl.EditFromLook(); got != Studio {
		t.Errorf("edit from look = %q, want studio", got)
	}
	preview, loading := f.ctl.Preview()
	if loading {
		t.Error("loading set after restore")
	}
	if preview != look.ResultURL {
		t.Errorf("preview = %q, want the saved result %q", preview, look.ResultURL)
	}
	sel := f.ctl.Selection()
	if sel.Hairstyle == nil || sel.Hairstyle.ID != "fh1" {
		t.Errorf("restored selection = %+v", sel)
	}
}

func TestSetGenderSwitchesDefaultModel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)

	f.ctl.SetGender(ctx, models.GenderMale)

	if got := f.ctl.Preferences().Gender; got != models.GenderMale {
		t.Errorf("gender = %q, want Male", got)
	}
	preview, _ := f.ctl.Preview()
	if preview != defaultMaleModel {
		t.Errorf("preview = %q, want the male default model", preview)
	}

	// The switch is persisted per user, not per device.
	prefs, err := f.sessions.Preferences(ctx, f.ctl.CurrentUser().ID)
	if err != nil {
		t.Fatal(err)
	}
	if prefs == nil || prefs.Gender != models.GenderMale {
		t.Errorf("persisted prefs = %+v, want Male", prefs)
	}
}

func TestSetModelImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)

	f.ctl.SetModelImage(ctx, "data:image/jpeg;base64,AAAA")
	preview, _ := f.ctl.Preview()
	if preview != "data:image/jpeg;base64,AAAA" {
		t.Errorf("preview = %q, want the uploaded photo", preview)
	}

	// Clearing the upload falls back to the default model.
	f.ctl.SetModelImage(ctx, "")
	preview, _ = f.ctl.Preview()
	if preview != defaultFemaleModel {
		t.Errorf("preview = %q, want the female default model", preview)
	}
}

func TestManagerAttachBootstrapsOnce(t *testing.T) {
	var made int
	mgr := NewManager(func(deviceID string) *Controller {
		made++
		accounts := newFakeAccounts()
		ctl := NewController(Config{
			DeviceID:  deviceID,
			Accounts:  accounts,
			Looks:     newFakeLooks(),
			Sessions:  session.NewManager(session.NewMemoryStore()),
			Generator: echoGenerator{},
		})
		return ctl
	})

	a := mgr.Attach(context.Background(), "device-9")
	b := mgr.Attach(context.Background(), "device-9")
	if a != b {
		t.Error("same device produced two controllers")
	}
	if made != 1 {
		t.Errorf("factory ran %d times, want 1", made)
	}
	if got := a.CurrentView(); got != Home {
		t.Errorf("attached controller view = %q, want home after bootstrap", got)
	}
}
